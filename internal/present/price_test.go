package present

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

func TestEstimatePrice(t *testing.T) {
	tests := []struct {
		name    string
		tier    int
		league  string
		wantMin int64
		wantMax int64
	}{
		{"premium major league doubles", model.TierPremium, "NFL", 1_000_000, 10_000_000},
		{"mid nba", model.TierMid, "NBA", 100_000, 1_000_000},
		{"mid mls neutral", model.TierMid, "MLS", 50_000, 500_000},
		{"budget wnba neutral", model.TierBudget, "WNBA", 5_000, 50_000},
		{"minor league halves", model.TierMid, "Minor League Baseball", 25_000, 250_000},
		{"college halves", model.TierBudget, "College Football", 2_500, 25_000},
		{"unknown league neutral", model.TierMid, "Regional Futsal", 50_000, 500_000},
		{"unknown tier falls back to budget band", 0, "NHL", 10_000, 100_000},
		{"matching is case insensitive", model.TierPremium, "premier league", 1_000_000, 10_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimatePrice(&model.Team{ValueTier: tt.tier, League: tt.league})
			assert.Equal(t, tt.wantMin, got.MinUSD)
			assert.Equal(t, tt.wantMax, got.MaxUSD)
			assert.Equal(t, "season", got.Period)
		})
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{5_000, "5,000"},
		{50_000, "50,000"},
		{1_234_567, "1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatThousands(tt.n))
	}
}
