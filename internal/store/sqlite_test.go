package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func rawFixture(id, name string) model.RawTeam {
	followers := int64(50000)
	return model.RawTeam{
		ID:         id,
		Name:       name,
		Region:     "Pacific Northwest",
		League:     "MLS",
		FollowersX: &followers,
		Sponsors:   []model.Sponsor{{Name: "Acme", Category: "finance"}},
	}
}

func teamFixture(id, name string) model.Team {
	w := 0.4
	return model.Team{
		ID:              id,
		Name:            name,
		Region:          "Pacific Northwest",
		League:          "MLS",
		ValueTier:       model.TierMid,
		DigitalReach:    0.3,
		LocalReach:      -0.1,
		RegionEmbedding: []float32{0.1, 0.2, 0.3},
		Demographics:    model.DemographicWeights{GenZ: &w},
		ProcessedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteRawTeams(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	n, err := st.UpsertRawTeams(ctx, []model.RawTeam{
		rawFixture("a", "Alpha FC"),
		rawFixture("b", "Bravo SC"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Upserting the same id updates instead of duplicating.
	updated := rawFixture("a", "Alpha FC")
	updated.Region = "Southwest"
	_, err = st.UpsertRawTeams(ctx, []model.RawTeam{updated})
	require.NoError(t, err)

	teams, err := st.ListRawTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha FC", teams[0].Name)
	assert.Equal(t, "Southwest", teams[0].Region)
	require.NotNil(t, teams[0].FollowersX)
	assert.Equal(t, int64(50000), *teams[0].FollowersX)

	count, err := st.CountRawTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteUpdateRawTeam(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	_, err := st.UpsertRawTeams(ctx, []model.RawTeam{rawFixture("a", "Alpha FC")})
	require.NoError(t, err)

	team := rawFixture("a", "Alpha FC")
	team.SetFollowerCount(model.PlatformInstagram, 99000)
	require.NoError(t, st.UpdateRawTeam(ctx, team))

	teams, err := st.ListRawTeams(ctx)
	require.NoError(t, err)
	require.NotNil(t, teams[0].FollowersInstagram)
	assert.Equal(t, int64(99000), *teams[0].FollowersInstagram)

	err = st.UpdateRawTeam(ctx, rawFixture("ghost", "Ghost"))
	assert.Error(t, err)
}

func TestSQLiteReplaceAndListTeams(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceTeams(ctx, []model.Team{
		teamFixture("t1", "Alpha FC"),
		teamFixture("t2", "Bravo SC"),
		teamFixture("t3", "Charlie United"),
	}))

	page, total, err := st.ListTeams(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha FC", page[0].Name)

	page, total, err = st.ListTeams(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Charlie United", page[0].Name)

	// Replace is a full rebuild.
	require.NoError(t, st.ReplaceTeams(ctx, []model.Team{teamFixture("t9", "Delta FC")}))
	_, total, err = st.ListTeams(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSQLiteGetTeam(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	want := teamFixture("t1", "Alpha FC")
	require.NoError(t, st.ReplaceTeams(ctx, []model.Team{want}))

	got, err := st.GetTeam(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.ValueTier, got.ValueTier)
	assert.Equal(t, want.RegionEmbedding, got.RegionEmbedding)
	require.NotNil(t, got.Demographics.GenZ)
	assert.InDelta(t, 0.4, *got.Demographics.GenZ, 1e-9)

	_, err = st.GetTeam(ctx, "missing")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestSQLiteSyncRuns(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run, err := st.StartSyncRun(ctx, model.SyncJobIngest, "teams.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.SyncStatusRunning, run.Status)

	require.NoError(t, st.FinishSyncRun(ctx, run.ID, SyncResult{
		Status:    model.SyncStatusSuccess,
		TeamCount: 42,
	}))

	runs, err := st.ListSyncRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.SyncStatusSuccess, runs[0].Status)
	assert.Equal(t, 42, runs[0].TeamCount)
	assert.Equal(t, "teams.csv", runs[0].Source)
	assert.NotNil(t, runs[0].FinishedAt)

	err = st.FinishSyncRun(ctx, "missing", SyncResult{Status: model.SyncStatusFailed})
	assert.Error(t, err)
}

func TestSQLiteSyncRunsOrderedNewestFirst(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	for _, job := range []model.SyncJob{model.SyncJobIngest, model.SyncJobPreprocess, model.SyncJobSocial} {
		_, err := st.StartSyncRun(ctx, job, "")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := st.ListSyncRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, model.SyncJobSocial, runs[0].Job)
	assert.Equal(t, model.SyncJobPreprocess, runs[1].Job)
}

func TestSQLiteCache(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	// Miss returns (nil, nil).
	v, err := st.CacheGet(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, st.CacheSet(ctx, "k", []byte("payload"), time.Hour))
	v, err = st.CacheGet(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), v)

	// Overwrite.
	require.NoError(t, st.CacheSet(ctx, "k", []byte("fresh"), time.Hour))
	v, err = st.CacheGet(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), v)

	// Expired entries read as misses.
	require.NoError(t, st.CacheSet(ctx, "old", []byte("stale"), time.Hour))
	_, err = st.db.ExecContext(ctx, `UPDATE kv_cache SET expires_at = datetime('now', '-1 hour') WHERE key = 'old'`)
	require.NoError(t, err)
	v, err = st.CacheGet(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, v)

	// Zero TTL never expires.
	require.NoError(t, st.CacheSet(ctx, "forever", []byte("keep"), 0))
	v, err = st.CacheGet(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), v)
}
