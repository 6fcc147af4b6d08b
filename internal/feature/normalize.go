package feature

import (
	"strings"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// MissingPlatformScore is what an absent social platform contributes to
// digital reach. A team that never opened a TikTok account carries no
// signal there, rather than the worst-case -1 a tracked-but-tiny
// account can earn.
const MissingPlatformScore = 0.0

// Demographic mix coefficients over the per-platform follower scores.
const (
	genZInstagramShare = 0.5
	genZTikTokShare    = 0.5
	millennialShare    = 0.2 // each of the five platforms
	genXShare          = 1.0 / 3.0
	womenXShare        = 0.33
	menXShare          = 0.67

	// League-specific audience adjustment.
	ownLeagueBoost     = 1.0
	crossLeaguePenalty = 0.5
)

// League markers for the women's/men's audience adjustment.
var (
	womensLeagueMarkers = []string{"women", "wnba", "nwsl", "ladies"}
	mensLeagueMarkers   = []string{"men"}
)

// FollowerScore normalizes one raw follower count into roughly [-1, 1]
// with a piecewise mapping: below the column mean scales into [-1, 0)
// via v/mean - 1, at or above the mean into [0, 1] via
// (v - mean)/(max - mean). A null count is the worst case, -1.
func FollowerScore(stats ColumnStats, v *int64) float64 {
	if v == nil {
		return -1
	}
	val := float64(*v)
	if stats.Mean <= 0 {
		return 0
	}
	if val < stats.Mean {
		return val/stats.Mean - 1
	}
	if stats.Max <= stats.Mean {
		return 0
	}
	return (val - stats.Mean) / (stats.Max - stats.Mean)
}

// platformScores computes the per-platform normalized follower scores
// for a row. The bool reports whether the platform had data at all.
func platformScores(row *model.RawTeam, stats CorpusStats) map[model.Platform]*float64 {
	scores := make(map[model.Platform]*float64, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		raw := row.FollowerCount(p)
		if raw == nil {
			scores[p] = nil
			continue
		}
		s := FollowerScore(stats.Followers[p], raw)
		scores[p] = &s
	}
	return scores
}

// DigitalReach averages the five platform scores, with missing
// platforms contributing MissingPlatformScore.
func DigitalReach(scores map[model.Platform]*float64) float64 {
	var sum float64
	for _, p := range model.AllPlatforms() {
		if s := scores[p]; s != nil {
			sum += *s
		} else {
			sum += MissingPlatformScore
		}
	}
	return sum / float64(len(model.AllPlatforms()))
}

// LocalReach averages the z-scored attendance and city population.
// A missing value contributes 0, no signal.
func LocalReach(row *model.RawTeam, stats CorpusStats) float64 {
	var attendance, population float64
	if row.AvgGameAttendance != nil {
		attendance = stats.Attendance.ZScore(float64(*row.AvgGameAttendance))
	}
	if row.CityPopulation != nil {
		population = stats.CityPopulation.ZScore(float64(*row.CityPopulation))
	}
	return (attendance + population) / 2
}

// FamilyFriendly z-scores the family program count; a missing count
// scores 0.
func FamilyFriendly(row *model.RawTeam, stats CorpusStats) float64 {
	if row.FamilyProgramCount == nil {
		return 0
	}
	return stats.FamilyProgramCount.ZScore(float64(*row.FamilyProgramCount))
}

// Demographics derives the audience weight set from the platform
// scores. Each weight is nil when every input platform is missing;
// missing inputs to a partially-known combination contribute 0.
func Demographics(row *model.RawTeam, scores map[model.Platform]*float64) model.DemographicWeights {
	var d model.DemographicWeights

	d.GenZ = combine(
		term{scores[model.PlatformInstagram], genZInstagramShare},
		term{scores[model.PlatformTikTok], genZTikTokShare},
	)
	d.Millennial = combine(
		term{scores[model.PlatformX], millennialShare},
		term{scores[model.PlatformInstagram], millennialShare},
		term{scores[model.PlatformFacebook], millennialShare},
		term{scores[model.PlatformTikTok], millennialShare},
		term{scores[model.PlatformYouTube], millennialShare},
	)
	d.GenX = combine(
		term{scores[model.PlatformX], genXShare},
		term{scores[model.PlatformFacebook], genXShare},
		term{scores[model.PlatformYouTube], genXShare},
	)
	d.Boomer = combine(term{scores[model.PlatformFacebook], 1})
	d.Kids = combine(term{scores[model.PlatformYouTube], 1})
	d.Women = combine(term{scores[model.PlatformX], womenXShare})
	d.Men = combine(term{scores[model.PlatformX], menXShare})

	applyLeagueAdjustment(&d, row.League)
	return d
}

type term struct {
	score *float64
	coeff float64
}

// combine sums coeff-weighted scores; nil inputs contribute 0, and the
// result is nil only when every input is nil.
func combine(terms ...term) *float64 {
	var sum float64
	any := false
	for _, t := range terms {
		if t.score != nil {
			sum += *t.score * t.coeff
			any = true
		}
	}
	if !any {
		return nil
	}
	return &sum
}

// applyLeagueAdjustment boosts the matching gender audience and
// penalizes the other when the league is gender-specific. A previously
// unknown weight starts from 0 before the adjustment.
func applyLeagueAdjustment(d *model.DemographicWeights, league string) {
	l := strings.ToLower(league)

	switch {
	case matchesMarker(l, womensLeagueMarkers):
		d.Women = adjust(d.Women, ownLeagueBoost)
		d.Men = adjust(d.Men, -crossLeaguePenalty)
	case matchesMarker(l, mensLeagueMarkers):
		d.Men = adjust(d.Men, ownLeagueBoost)
		d.Women = adjust(d.Women, -crossLeaguePenalty)
	}
}

// matchesMarker is containment-based, so the women's markers must be
// checked before the bare "men" marker catches "women's" leagues.
func matchesMarker(league string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(league, m) {
			return true
		}
	}
	return false
}

func adjust(v *float64, delta float64) *float64 {
	base := 0.0
	if v != nil {
		base = *v
	}
	out := base + delta
	return &out
}
