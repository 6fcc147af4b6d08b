package feature

import (
	"github.com/pitchside-labs/sponsormatch/internal/config"
	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// ValueTier assigns a tier from raw financials, thresholding on
// franchise value first and average ticket price as the fallback.
// Every team gets a tier; with neither signal it defaults to budget.
//
// An alternate strategy thresholds a weighted composite of normalized
// valuation, revenue, ticket price, and metro GDP at +/-0.5. The raw
// thresholds won because they are directly explainable to a brand
// ("this is a two-billion-dollar franchise") and need no corpus stats;
// the thresholds live in config so swapping strategies stays mechanical.
func ValueTier(row *model.RawTeam, cfg config.FeatureConfig) int {
	if row.FranchiseValueMillions != nil {
		switch v := *row.FranchiseValueMillions; {
		case v > cfg.FranchiseTier3Millions:
			return model.TierPremium
		case v > cfg.FranchiseTier2Millions:
			return model.TierMid
		default:
			return model.TierBudget
		}
	}

	if row.AvgTicketPrice != nil {
		switch p := *row.AvgTicketPrice; {
		case p > cfg.TicketTier3:
			return model.TierPremium
		case p > cfg.TicketTier2:
			return model.TierMid
		default:
			return model.TierBudget
		}
	}

	return model.TierBudget
}
