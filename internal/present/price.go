package present

import (
	"strings"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// tierBaseRanges holds the per-season sponsorship price band for each
// value tier, in USD, before the league multiplier.
var tierBaseRanges = map[int][2]int64{
	model.TierBudget:  {5_000, 50_000},
	model.TierMid:     {50_000, 500_000},
	model.TierPremium: {500_000, 5_000_000},
}

// leagueMultipliers scales the band by league prominence. Keys are
// matched as substrings of the lowercased league name; first hit wins.
var leagueMultipliers = []struct {
	keyword    string
	multiplier float64
}{
	{"nfl", 2.0},
	{"nba", 2.0},
	{"mlb", 2.0},
	{"nhl", 2.0},
	{"premier league", 2.0},
	{"mls", 1.0},
	{"nwsl", 1.0},
	{"wnba", 1.0},
	{"minor", 0.5},
	{"semi-pro", 0.5},
	{"college", 0.5},
}

// EstimatePrice derives a sponsorship price band from the team's value
// tier and league. Unknown tiers fall back to the budget band; unknown
// leagues use a 1.0 multiplier.
func EstimatePrice(team *model.Team) model.PriceEstimate {
	base, ok := tierBaseRanges[team.ValueTier]
	if !ok {
		base = tierBaseRanges[model.TierBudget]
	}

	mult := 1.0
	league := strings.ToLower(team.League)
	for _, lm := range leagueMultipliers {
		if strings.Contains(league, lm.keyword) {
			mult = lm.multiplier
			break
		}
	}

	return model.PriceEstimate{
		MinUSD: int64(float64(base[0]) * mult),
		MaxUSD: int64(float64(base[1]) * mult),
		Period: "season",
	}
}
