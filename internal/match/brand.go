package match

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// BrandVector is the per-request feature set derived from a brand's
// query and filters. Built fresh for each search, never persisted.
type BrandVector struct {
	RegionEmbedding   []float32
	LeagueEmbedding   []float32
	ValuesEmbedding   []float32
	AudienceEmbedding []float32
	GoalsEmbedding    []float32
	QueryEmbedding    []float32

	TargetValueTier int

	// Lowercased filter text retained for keyword-driven components.
	AudienceText string
	GoalsText    string

	// Non-blank league selections; a non-empty list gates scoring.
	Leagues []string
}

// Tier adjustment keywords. Premium goals pull the target tier up one,
// grassroots goals pull it down two; the result clamps to [1, 3].
var (
	premiumGoalKeywords    = []string{"prestige", "credibility", "brand awareness", "b2b"}
	grassrootsGoalKeywords = []string{"grassroots", "fan activation"}
)

// TargetValueTier derives the brand's target team tier from its goals
// text. The baseline is mid-tier.
func TargetValueTier(goalsText string) int {
	tier := model.TierMid
	text := strings.ToLower(goalsText)

	if containsAny(text, premiumGoalKeywords) {
		tier++
	}
	if containsAny(text, grassrootsGoalKeywords) {
		tier -= 2
	}

	if tier < model.TierBudget {
		tier = model.TierBudget
	}
	if tier > model.TierPremium {
		tier = model.TierPremium
	}
	return tier
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Embedder is the consumer interface for brand blob embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BuildBrandVector joins the request filters into text blobs, derives
// the target value tier, and embeds each blob. Empty blobs embed to nil
// and short-circuit their similarity terms; a failed embedding call is
// logged and also yields nil so a degraded search still returns results.
func BuildBrandVector(ctx context.Context, emb Embedder, req model.SearchRequest) *BrandVector {
	regionBlob := strings.Join(req.Filters.Regions, " ")
	leagueBlob := strings.Join(req.Filters.Leagues, " ")
	valuesBlob := strings.Join(req.Filters.BrandValues, " ")
	audienceBlob := strings.Join(req.Filters.Demographics, " ")
	goalsBlob := strings.Join(req.Filters.Goals, " ")

	bv := &BrandVector{
		TargetValueTier: TargetValueTier(goalsBlob),
		AudienceText:    strings.ToLower(audienceBlob),
		GoalsText:       strings.ToLower(goalsBlob),
	}
	for _, l := range req.Filters.Leagues {
		if strings.TrimSpace(l) != "" {
			bv.Leagues = append(bv.Leagues, l)
		}
	}

	bv.RegionEmbedding = embedBlob(ctx, emb, "regions", regionBlob)
	bv.LeagueEmbedding = embedBlob(ctx, emb, "leagues", leagueBlob)
	bv.ValuesEmbedding = embedBlob(ctx, emb, "values", valuesBlob)
	bv.AudienceEmbedding = embedBlob(ctx, emb, "audience", audienceBlob)
	bv.GoalsEmbedding = embedBlob(ctx, emb, "goals", goalsBlob)
	bv.QueryEmbedding = embedBlob(ctx, emb, "query", req.Query)

	return bv
}

func embedBlob(ctx context.Context, emb Embedder, field, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	vec, err := emb.Embed(ctx, text)
	if err != nil {
		zap.L().Warn("match: embed brand blob failed",
			zap.String("field", field),
			zap.Error(err),
		)
		return nil
	}
	return vec
}
