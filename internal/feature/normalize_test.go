package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

func TestFollowerScore(t *testing.T) {
	stats := ColumnStats{Mean: 1000, SD: 500, Max: 5000}

	tests := []struct {
		name string
		v    *int64
		want float64
	}{
		{"null is worst case", nil, -1},
		{"zero maps to -1", ptrInt64(0), -1},
		{"half the mean", ptrInt64(500), -0.5},
		{"at the mean", ptrInt64(1000), 0},
		{"halfway to max", ptrInt64(3000), 0.5},
		{"at the max", ptrInt64(5000), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FollowerScore(stats, tt.v), 1e-9)
		})
	}
}

func TestFollowerScoreDegenerateStats(t *testing.T) {
	// Mean 0 (empty column) scores 0 for any present value.
	assert.Zero(t, FollowerScore(ColumnStats{}, ptrInt64(500)))
	// Max == mean (constant column) scores 0 at or above the mean.
	assert.Zero(t, FollowerScore(ColumnStats{Mean: 100, Max: 100}, ptrInt64(100)))
}

func TestDigitalReach(t *testing.T) {
	scores := map[model.Platform]*float64{
		model.PlatformX:         ptrFloat64(1),
		model.PlatformInstagram: ptrFloat64(0.5),
		model.PlatformFacebook:  nil,
		model.PlatformTikTok:    nil,
		model.PlatformYouTube:   nil,
	}
	// Missing platforms contribute MissingPlatformScore (0), not -1.
	assert.InDelta(t, 1.5/5, DigitalReach(scores), 1e-9)

	empty := map[model.Platform]*float64{}
	assert.Zero(t, DigitalReach(empty))
}

func TestLocalReach(t *testing.T) {
	stats := CorpusStats{
		Attendance:     ColumnStats{Mean: 10000, SD: 5000},
		CityPopulation: ColumnStats{Mean: 1000000, SD: 500000},
	}

	row := &model.RawTeam{
		AvgGameAttendance: ptrInt64(20000), // z = 2
		CityPopulation:    ptrInt64(500000), // z = -1
	}
	assert.InDelta(t, 0.5, LocalReach(row, stats), 1e-9)

	// Missing values contribute 0.
	partial := &model.RawTeam{AvgGameAttendance: ptrInt64(20000)}
	assert.InDelta(t, 1, LocalReach(partial, stats), 1e-9)

	assert.Zero(t, LocalReach(&model.RawTeam{}, stats))
}

func TestFamilyFriendly(t *testing.T) {
	stats := CorpusStats{FamilyProgramCount: ColumnStats{Mean: 4, SD: 2}}

	assert.InDelta(t, 1, FamilyFriendly(&model.RawTeam{FamilyProgramCount: ptrInt64(6)}, stats), 1e-9)
	assert.Zero(t, FamilyFriendly(&model.RawTeam{}, stats))
}

func TestDemographicsCombination(t *testing.T) {
	row := &model.RawTeam{League: "NBA"}
	scores := map[model.Platform]*float64{
		model.PlatformInstagram: ptrFloat64(0.8),
		model.PlatformTikTok:    ptrFloat64(0.4),
		model.PlatformX:         ptrFloat64(0.6),
	}

	d := Demographics(row, scores)

	require.NotNil(t, d.GenZ)
	assert.InDelta(t, 0.8*0.5+0.4*0.5, *d.GenZ, 1e-9)

	require.NotNil(t, d.Millennial)
	assert.InDelta(t, (0.8+0.4+0.6)*0.2, *d.Millennial, 1e-9)

	require.NotNil(t, d.Women)
	assert.InDelta(t, 0.6*0.33, *d.Women, 1e-9)
	require.NotNil(t, d.Men)
	assert.InDelta(t, 0.6*0.67, *d.Men, 1e-9)

	// Facebook and YouTube missing: their solo audiences stay nil.
	assert.Nil(t, d.Boomer)
	assert.Nil(t, d.Kids)
}

func TestDemographicsAllMissing(t *testing.T) {
	d := Demographics(&model.RawTeam{League: "MLB"}, map[model.Platform]*float64{})

	assert.Nil(t, d.GenZ)
	assert.Nil(t, d.Millennial)
	assert.Nil(t, d.GenX)
	assert.Nil(t, d.Boomer)
	assert.Nil(t, d.Kids)
	assert.Nil(t, d.Women)
	assert.Nil(t, d.Men)
}

func TestLeagueAdjustment(t *testing.T) {
	scores := map[model.Platform]*float64{
		model.PlatformX: ptrFloat64(1),
	}

	tests := []struct {
		name      string
		league    string
		wantWomen float64
		wantMen   float64
	}{
		{"womens league boosts women", "WNBA", 0.33 + 1, 0.67 - 0.5},
		{"nwsl counts as womens", "NWSL", 0.33 + 1, 0.67 - 0.5},
		{"womens keyword", "Women's Super League", 0.33 + 1, 0.67 - 0.5},
		{"mens league boosts men", "Men's League One", 0.33 - 0.5, 0.67 + 1},
		{"neutral league unchanged", "MLB", 0.33, 0.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Demographics(&model.RawTeam{League: tt.league}, scores)
			require.NotNil(t, d.Women)
			require.NotNil(t, d.Men)
			assert.InDelta(t, tt.wantWomen, *d.Women, 1e-9)
			assert.InDelta(t, tt.wantMen, *d.Men, 1e-9)
		})
	}
}

func TestLeagueAdjustmentFromNilBase(t *testing.T) {
	// No X followers: gender weights are nil until the league adjustment
	// seeds them from 0.
	d := Demographics(&model.RawTeam{League: "WNBA"}, map[model.Platform]*float64{})
	require.NotNil(t, d.Women)
	assert.InDelta(t, 1, *d.Women, 1e-9)
	require.NotNil(t, d.Men)
	assert.InDelta(t, -0.5, *d.Men, 1e-9)
}
