package match

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/metrics"
	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// Goal keywords that pin the reach component to one signal instead of
// the digital/local average.
const (
	digitalPresenceKeyword = "digital-presence"
	localPresenceKeyword   = "local-presence"
)

// TeamSource pages through the processed team corpus. The page size
// mirrors the per-query payload limit of the backing store.
type TeamSource interface {
	ListTeams(ctx context.Context, offset, limit int) ([]model.Team, int, error)
}

// Searcher scores the team corpus against brand queries.
type Searcher struct {
	teams    TeamSource
	emb      Embedder
	weights  Weights
	pageSize int
}

// NewSearcher creates a Searcher. pageSize caps rows fetched per store
// query during the scan.
func NewSearcher(teams TeamSource, emb Embedder, weights Weights, pageSize int) *Searcher {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Searcher{teams: teams, emb: emb, weights: weights, pageSize: pageSize}
}

// Search builds the brand vector, scores every team, sorts descending
// by score, and returns the requested page. An empty corpus returns an
// empty response, not an error.
func (s *Searcher) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	start := time.Now()

	bv := BuildBrandVector(ctx, s.emb, req)

	var scored []model.ScoredTeam
	offset := 0
	for {
		teams, total, err := s.teams.ListTeams(ctx, offset, s.pageSize)
		if err != nil {
			return nil, eris.Wrap(err, "match: list teams")
		}
		for i := range teams {
			scored = append(scored, ScoreTeam(&teams[i], bv, s.weights))
		}
		offset += len(teams)
		if len(teams) == 0 || offset >= total {
			break
		}
	}

	sortScored(scored)
	resp := Paginate(scored, req.Page, req.PageSize)

	metrics.SearchesTotal.Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	zap.L().Info("match: search complete",
		zap.Int("teams_scored", len(scored)),
		zap.Int("page", resp.CurrentPage),
		zap.Duration("elapsed", time.Since(start)),
	)

	return resp, nil
}

// ScoreTeam computes the weighted similarity of one team to the brand.
func ScoreTeam(t *model.Team, bv *BrandVector, w Weights) model.ScoredTeam {
	components := map[string]float64{
		"region":       Cosine(bv.RegionEmbedding, t.RegionEmbedding),
		"query":        querySim(t, bv.QueryEmbedding),
		"values":       Cosine(bv.ValuesEmbedding, t.ValuesEmbedding),
		"valuation":    valuationSim(bv.TargetValueTier, t.ValueTier),
		"demographics": demographicSim(t, bv.AudienceText),
		"reach":        reachSim(t, bv.GoalsText),
	}

	score := components["region"]*w.Region +
		components["query"]*w.Query +
		components["values"]*w.Values +
		components["valuation"]*w.Valuation +
		components["demographics"]*w.Demographics +
		components["reach"]*w.Reach

	// A league filter is a hard gate: teams outside every selected
	// league score 0 no matter how the other components land.
	if len(bv.Leagues) > 0 && !leagueMatches(bv.Leagues, t.League) {
		score = 0
	}

	return model.ScoredTeam{
		Team:            *t,
		SimilarityScore: math.Round(score*10000) / 10000,
		ComponentScores: components,
	}
}

// querySim averages the free-text query's similarity to the team's
// league, values, and community-program embeddings.
func querySim(t *model.Team, query []float32) float64 {
	return (Cosine(query, t.LeagueEmbedding) +
		Cosine(query, t.ValuesEmbedding) +
		Cosine(query, t.CommunityProgramsEmbedding)) / 3
}

// valuationSim maps tier distance onto [0, 1]: equal tiers score 1,
// the maximum distance of 2 scores 0.
func valuationSim(target, tier int) float64 {
	return 1 - math.Abs(float64(target-tier))/2
}

// reachSim picks the reach signal the brand's goals ask for, defaulting
// to the average of digital and local reach.
func reachSim(t *model.Team, goalsText string) float64 {
	switch {
	case strings.Contains(goalsText, digitalPresenceKeyword):
		return t.DigitalReach
	case strings.Contains(goalsText, localPresenceKeyword):
		return t.LocalReach
	default:
		return (t.DigitalReach + t.LocalReach) / 2
	}
}

// leagueMatches reports whether the team's league matches any selected
// league, by case-insensitive containment in either direction.
func leagueMatches(leagues []string, teamLeague string) bool {
	tl := strings.ToLower(strings.TrimSpace(teamLeague))
	if tl == "" {
		return false
	}
	for _, l := range leagues {
		sel := strings.ToLower(strings.TrimSpace(l))
		if sel == "" {
			continue
		}
		if strings.Contains(tl, sel) || strings.Contains(sel, tl) {
			return true
		}
	}
	return false
}

// sortScored orders by descending score; equal scores keep ascending
// team-name order so pagination is deterministic.
func sortScored(scored []model.ScoredTeam) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].SimilarityScore != scored[j].SimilarityScore {
			return scored[i].SimilarityScore > scored[j].SimilarityScore
		}
		return scored[i].Team.Name < scored[j].Team.Name
	})
}
