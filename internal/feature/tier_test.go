package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside-labs/sponsormatch/internal/config"
	"github.com/pitchside-labs/sponsormatch/internal/model"
)

func tierCfg() config.FeatureConfig {
	return config.FeatureConfig{
		FranchiseTier3Millions: 2000,
		FranchiseTier2Millions: 200,
		TicketTier3:            120,
		TicketTier2:            100,
	}
}

func TestValueTier(t *testing.T) {
	tests := []struct {
		name string
		row  model.RawTeam
		want int
	}{
		{"three billion franchise", model.RawTeam{FranchiseValueMillions: ptrFloat64(3000)}, model.TierPremium},
		{"just above tier 3 threshold", model.RawTeam{FranchiseValueMillions: ptrFloat64(2000.01)}, model.TierPremium},
		{"at threshold stays mid", model.RawTeam{FranchiseValueMillions: ptrFloat64(2000)}, model.TierMid},
		{"mid franchise", model.RawTeam{FranchiseValueMillions: ptrFloat64(500)}, model.TierMid},
		{"small franchise", model.RawTeam{FranchiseValueMillions: ptrFloat64(50)}, model.TierBudget},
		{"pricey tickets", model.RawTeam{AvgTicketPrice: ptrFloat64(150)}, model.TierPremium},
		{"mid tickets", model.RawTeam{AvgTicketPrice: ptrFloat64(110)}, model.TierMid},
		{"cheap tickets", model.RawTeam{AvgTicketPrice: ptrFloat64(30)}, model.TierBudget},
		{"no financials defaults to budget", model.RawTeam{}, model.TierBudget},
		// Franchise value wins over ticket price when both exist.
		{"franchise beats tickets", model.RawTeam{
			FranchiseValueMillions: ptrFloat64(50),
			AvgTicketPrice:         ptrFloat64(150),
		}, model.TierBudget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueTier(&tt.row, tierCfg()))
		})
	}
}
