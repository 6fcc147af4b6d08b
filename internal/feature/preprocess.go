package feature

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchside-labs/sponsormatch/internal/config"
	"github.com/pitchside-labs/sponsormatch/internal/embed"
	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// Preprocessor runs the batch feature job: corpus statistics, per-row
// normalization, and per-field embedding.
type Preprocessor struct {
	emb embed.Embedder
	cfg config.FeatureConfig
}

// NewPreprocessor creates a Preprocessor.
func NewPreprocessor(emb embed.Embedder, cfg config.FeatureConfig) *Preprocessor {
	return &Preprocessor{emb: emb, cfg: cfg}
}

// Run transforms every raw row into a processed team. Embedding
// failures degrade the affected field to nil; no row aborts the batch.
func (p *Preprocessor) Run(ctx context.Context, rows []model.RawTeam) ([]model.Team, error) {
	stats := ComputeStats(rows)
	zap.L().Info("feature: corpus stats computed",
		zap.Int("rows", len(rows)),
		zap.Float64("attendance_mean", stats.Attendance.Mean),
		zap.Float64("population_mean", stats.CityPopulation.Mean),
	)

	teams := make([]model.Team, 0, len(rows))
	for i := range rows {
		team := p.processRow(ctx, &rows[i], stats)
		teams = append(teams, team)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return teams, nil
}

// NormalizeRow computes the numeric features for one row given the
// corpus stats. Pure and deterministic: identical input and stats give
// identical output.
func NormalizeRow(row *model.RawTeam, stats CorpusStats, cfg config.FeatureConfig) model.Team {
	scores := platformScores(row, stats)

	id := row.ID
	if id == "" {
		id = uuid.New().String()
	}

	return model.Team{
		ID:          id,
		Name:        row.Name,
		Region:      row.Region,
		League:      row.League,
		OfficialURL: row.OfficialURL,
		LogoURL:     row.LogoURL,

		DigitalReach:   DigitalReach(scores),
		LocalReach:     LocalReach(row, stats),
		FamilyFriendly: FamilyFriendly(row, stats),
		ValueTier:      ValueTier(row, cfg),
		Demographics:   Demographics(row, scores),

		Sponsors:    row.Sponsors,
		ProcessedAt: time.Now().UTC(),
	}
}

// processRow normalizes one row and embeds its seven text fields in
// parallel. The field embeddings are independent, so a failure in one
// leaves the others intact.
func (p *Preprocessor) processRow(ctx context.Context, row *model.RawTeam, stats CorpusStats) model.Team {
	team := NormalizeRow(row, stats, p.cfg)

	fields := []struct {
		name string
		blob string
		dst  *[]float32
	}{
		{"region", RegionBlob(row), &team.RegionEmbedding},
		{"league", LeagueBlob(row), &team.LeagueEmbedding},
		{"values", ValuesBlob(row), &team.ValuesEmbedding},
		{"sponsors", SponsorsBlob(row), &team.SponsorsEmbedding},
		{"family_programs", FamilyProgramsBlob(row), &team.FamilyProgramsEmbedding},
		{"community_programs", CommunityProgramsBlob(row), &team.CommunityProgramsEmbedding},
		{"partners", PartnersBlob(row), &team.PartnersEmbedding},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fields {
		f := f
		if strings.TrimSpace(f.blob) == "" {
			continue
		}
		g.Go(func() error {
			vec, err := p.emb.Embed(gctx, f.blob)
			if err != nil {
				zap.L().Warn("feature: embed field failed",
					zap.String("team", row.Name),
					zap.String("field", f.name),
					zap.Error(err),
				)
				return nil
			}
			*f.dst = vec
			return nil
		})
	}
	_ = g.Wait()

	return team
}
