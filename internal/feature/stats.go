// Package feature transforms raw scraped team rows into the normalized,
// embedded records the similarity scorer consumes.
package feature

import (
	"math"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// sdFloor keeps z-scores finite for near-constant columns.
const sdFloor = 1.0

// ColumnStats holds population statistics for one numeric column,
// computed across the whole corpus with nulls ignored.
type ColumnStats struct {
	Mean float64
	SD   float64
	Max  float64
	N    int
}

// ZScore returns (v - mean) / sd with the sd floored at 1.
func (c ColumnStats) ZScore(v float64) float64 {
	sd := c.SD
	if sd < sdFloor {
		sd = sdFloor
	}
	return (v - c.Mean) / sd
}

// CorpusStats is the immutable statistics snapshot computed once per
// batch run and passed by argument into every per-row normalization.
type CorpusStats struct {
	Attendance         ColumnStats
	CityPopulation     ColumnStats
	FamilyProgramCount ColumnStats
	Followers          map[model.Platform]ColumnStats
}

// ComputeStats makes one pass over the raw corpus and returns the
// per-column mean, population standard deviation, and max.
func ComputeStats(rows []model.RawTeam) CorpusStats {
	stats := CorpusStats{
		Followers: make(map[model.Platform]ColumnStats, len(model.AllPlatforms())),
	}

	stats.Attendance = columnStats(rows, func(r *model.RawTeam) *float64 {
		return intPtrToFloat(r.AvgGameAttendance)
	})
	stats.CityPopulation = columnStats(rows, func(r *model.RawTeam) *float64 {
		return intPtrToFloat(r.CityPopulation)
	})
	stats.FamilyProgramCount = columnStats(rows, func(r *model.RawTeam) *float64 {
		return intPtrToFloat(r.FamilyProgramCount)
	})

	for _, p := range model.AllPlatforms() {
		platform := p
		stats.Followers[platform] = columnStats(rows, func(r *model.RawTeam) *float64 {
			return intPtrToFloat(r.FollowerCount(platform))
		})
	}

	return stats
}

// columnStats computes population mean/sd/max over non-null values.
func columnStats(rows []model.RawTeam, get func(*model.RawTeam) *float64) ColumnStats {
	var sum, max float64
	var n int
	for i := range rows {
		if v := get(&rows[i]); v != nil {
			sum += *v
			if *v > max {
				max = *v
			}
			n++
		}
	}
	if n == 0 {
		return ColumnStats{SD: sdFloor}
	}

	mean := sum / float64(n)
	var sqDiff float64
	for i := range rows {
		if v := get(&rows[i]); v != nil {
			d := *v - mean
			sqDiff += d * d
		}
	}
	sd := math.Sqrt(sqDiff / float64(n))
	if sd < sdFloor {
		sd = sdFloor
	}

	return ColumnStats{Mean: mean, SD: sd, Max: max, N: n}
}

func intPtrToFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
