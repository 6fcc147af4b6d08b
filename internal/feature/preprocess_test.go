package feature

import (
	"context"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// recordingEmbedder returns a fixed vector and remembers the texts it saw.
type recordingEmbedder struct {
	mu     sync.Mutex
	texts  []string
	vec    []float32
	errFor map[string]error
}

func (e *recordingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.texts = append(e.texts, text)
	e.mu.Unlock()
	if err, ok := e.errFor[text]; ok {
		return nil, err
	}
	if e.vec != nil {
		return e.vec, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func sampleRow() model.RawTeam {
	return model.RawTeam{
		ID:                 "team-1",
		Name:               "Harbor City FC",
		Region:             "Pacific Northwest",
		League:             "MLS",
		AvgGameAttendance:  ptrInt64(20000),
		CityPopulation:     ptrInt64(800000),
		FamilyProgramCount: ptrInt64(3),
		FollowersX:         ptrInt64(50000),
		FollowersInstagram: ptrInt64(120000),
		MissionTags:        []string{"community", "sustainability"},
		Sponsors:           []model.Sponsor{{Name: "Acme"}},
	}
}

func TestPreprocessorRun(t *testing.T) {
	emb := &recordingEmbedder{}
	p := NewPreprocessor(emb, tierCfg())

	rows := []model.RawTeam{sampleRow()}
	teams, err := p.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	team := teams[0]
	assert.Equal(t, "team-1", team.ID)
	assert.Equal(t, "Harbor City FC", team.Name)
	assert.Equal(t, model.TierBudget, team.ValueTier)
	assert.False(t, team.ProcessedAt.IsZero())

	// Non-empty blobs got embedded.
	assert.NotNil(t, team.RegionEmbedding)
	assert.NotNil(t, team.LeagueEmbedding)
	assert.NotNil(t, team.ValuesEmbedding)
	assert.NotNil(t, team.SponsorsEmbedding)

	// Empty blobs embed to nil, never a zero vector.
	assert.Nil(t, team.FamilyProgramsEmbedding)
	assert.Nil(t, team.CommunityProgramsEmbedding)
	assert.Nil(t, team.PartnersEmbedding)
	for _, text := range emb.texts {
		assert.NotEmpty(t, text)
	}
}

func TestPreprocessorEmbedFailureDegradesField(t *testing.T) {
	emb := &recordingEmbedder{errFor: map[string]error{
		"MLS": eris.New("provider unavailable"),
	}}
	p := NewPreprocessor(emb, tierCfg())

	teams, err := p.Run(context.Background(), []model.RawTeam{sampleRow()})
	require.NoError(t, err, "one failed field never aborts the batch")
	require.Len(t, teams, 1)

	assert.Nil(t, teams[0].LeagueEmbedding)
	assert.NotNil(t, teams[0].RegionEmbedding, "other fields survive")
}

func TestPreprocessorAssignsID(t *testing.T) {
	row := sampleRow()
	row.ID = ""
	p := NewPreprocessor(&recordingEmbedder{}, tierCfg())

	teams, err := p.Run(context.Background(), []model.RawTeam{row})
	require.NoError(t, err)
	assert.NotEmpty(t, teams[0].ID)
}

func TestPreprocessorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPreprocessor(&recordingEmbedder{}, tierCfg())
	_, err := p.Run(ctx, []model.RawTeam{sampleRow()})
	assert.ErrorIs(t, err, context.Canceled)
}

// NormalizeRow is pure: same row and stats give the same features.
func TestNormalizeRowDeterministic(t *testing.T) {
	row := sampleRow()
	rows := []model.RawTeam{row, {
		Name:               "Rival SC",
		League:             "MLS",
		AvgGameAttendance:  ptrInt64(10000),
		FollowersX:         ptrInt64(10000),
		FollowersInstagram: ptrInt64(20000),
	}}
	stats := ComputeStats(rows)

	a := NormalizeRow(&row, stats, tierCfg())
	b := NormalizeRow(&row, stats, tierCfg())

	assert.Equal(t, a.DigitalReach, b.DigitalReach)
	assert.Equal(t, a.LocalReach, b.LocalReach)
	assert.Equal(t, a.FamilyFriendly, b.FamilyFriendly)
	assert.Equal(t, a.ValueTier, b.ValueTier)
	assert.Equal(t, a.Demographics, b.Demographics)
}
