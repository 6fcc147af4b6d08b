package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

func ptrInt64(v int64) *int64       { return &v }
func ptrFloat64(v float64) *float64 { return &v }

func TestComputeStatsIgnoresNulls(t *testing.T) {
	rows := []model.RawTeam{
		{AvgGameAttendance: ptrInt64(10000)},
		{AvgGameAttendance: ptrInt64(20000)},
		{AvgGameAttendance: nil},
		{AvgGameAttendance: ptrInt64(30000)},
	}
	stats := ComputeStats(rows)

	assert.Equal(t, 3, stats.Attendance.N)
	assert.InDelta(t, 20000, stats.Attendance.Mean, 1e-9)
	assert.InDelta(t, 30000, stats.Attendance.Max, 1e-9)
	// Population sd of {10000, 20000, 30000}.
	assert.InDelta(t, 8164.97, stats.Attendance.SD, 0.01)
}

func TestComputeStatsEmptyColumn(t *testing.T) {
	stats := ComputeStats([]model.RawTeam{{}, {}})

	assert.Equal(t, 0, stats.Attendance.N)
	assert.Zero(t, stats.Attendance.Mean)
	// SD floors at 1 so z-scores stay finite.
	assert.InDelta(t, 1, stats.Attendance.SD, 1e-9)
	assert.Zero(t, stats.Attendance.ZScore(0))
}

func TestComputeStatsPerPlatform(t *testing.T) {
	rows := []model.RawTeam{
		{FollowersX: ptrInt64(100), FollowersInstagram: ptrInt64(5000)},
		{FollowersX: ptrInt64(300)},
	}
	stats := ComputeStats(rows)

	assert.InDelta(t, 200, stats.Followers[model.PlatformX].Mean, 1e-9)
	assert.Equal(t, 2, stats.Followers[model.PlatformX].N)
	assert.InDelta(t, 5000, stats.Followers[model.PlatformInstagram].Mean, 1e-9)
	assert.Equal(t, 1, stats.Followers[model.PlatformInstagram].N)
	assert.Equal(t, 0, stats.Followers[model.PlatformTikTok].N)
}

func TestZScoreFloorsSD(t *testing.T) {
	c := ColumnStats{Mean: 10, SD: 0.1}
	// sd 0.1 floors to 1, so z = (12-10)/1.
	assert.InDelta(t, 2, c.ZScore(12), 1e-9)

	c = ColumnStats{Mean: 10, SD: 4}
	assert.InDelta(t, 0.5, c.ZScore(12), 1e-9)
}
