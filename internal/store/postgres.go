package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/pitchside-labs/sponsormatch/internal/db"
	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// PostgresStore implements Store using pgxpool. Team documents are
// JSONB beside the indexed columns; raw team loads go through the bulk
// upsert helper.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS raw_teams (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	league     TEXT NOT NULL,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS teams (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	region       TEXT NOT NULL DEFAULT '',
	league       TEXT NOT NULL DEFAULT '',
	value_tier   INTEGER NOT NULL DEFAULT 1,
	data         JSONB NOT NULL,
	processed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id          TEXT PRIMARY KEY,
	job         TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'running',
	team_count  INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	output_path TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS kv_cache (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_raw_teams_league ON raw_teams(league);
CREATE INDEX IF NOT EXISTS idx_teams_name ON teams(name);
CREATE INDEX IF NOT EXISTS idx_teams_league ON teams(league);
CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertRawTeams(ctx context.Context, teams []model.RawTeam) (int, error) {
	if len(teams) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(teams))
	for i := range teams {
		data, err := json.Marshal(&teams[i])
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal raw team %s", teams[i].Name)
		}
		rows = append(rows, []any{teams[i].ID, teams[i].Name, teams[i].League, data, now})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "raw_teams",
		Columns:      []string{"id", "name", "league", "data", "updated_at"},
		ConflictKeys: []string{"id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert raw teams")
	}
	return int(n), nil
}

func (s *PostgresStore) ListRawTeams(ctx context.Context) ([]model.RawTeam, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM raw_teams ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list raw teams")
	}
	defer rows.Close()

	var teams []model.RawTeam
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan raw team")
		}
		var t model.RawTeam
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal raw team")
		}
		teams = append(teams, t)
	}
	return teams, eris.Wrap(rows.Err(), "postgres: list raw teams iterate")
}

func (s *PostgresStore) UpdateRawTeam(ctx context.Context, team model.RawTeam) error {
	data, err := json.Marshal(&team)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal raw team")
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE raw_teams SET name = $1, league = $2, data = $3, updated_at = $4 WHERE id = $5`,
		team.Name, team.League, data, time.Now().UTC(), team.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update raw team %s", team.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("raw team not found: %s", team.ID)
	}
	return nil
}

func (s *PostgresStore) CountRawTeams(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM raw_teams`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count raw teams")
}

func (s *PostgresStore) ReplaceTeams(ctx context.Context, teams []model.Team) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace teams")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM teams`); err != nil {
		return eris.Wrap(err, "postgres: clear teams")
	}

	rows := make([][]any, 0, len(teams))
	for i := range teams {
		t := &teams[i]
		data, err := json.Marshal(t)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal team %s", t.Name)
		}
		rows = append(rows, []any{t.ID, t.Name, t.Region, t.League, t.ValueTier, data, t.ProcessedAt})
	}

	columns := []string{"id", "name", "region", "league", "value_tier", "data", "processed_at"}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"teams"}, columns, pgx.CopyFromRows(rows)); err != nil {
		return eris.Wrap(err, "postgres: copy teams")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace teams")
}

func (s *PostgresStore) ListTeams(ctx context.Context, offset, limit int) ([]model.Team, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count teams")
	}

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM teams ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list teams")
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan team")
		}
		var t model.Team
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: unmarshal team")
		}
		teams = append(teams, t)
	}
	return teams, total, eris.Wrap(rows.Err(), "postgres: list teams iterate")
}

func (s *PostgresStore) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM teams WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get team %s", id)
	}

	var t model.Team
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal team")
	}
	return &t, nil
}

func (s *PostgresStore) StartSyncRun(ctx context.Context, job model.SyncJob, source string) (*model.SyncRun, error) {
	run := &model.SyncRun{
		ID:        uuid.New().String(),
		Job:       job,
		Source:    source,
		Status:    model.SyncStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sync_runs (id, job, source, status, started_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, string(run.Job), run.Source, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert sync run")
	}
	return run, nil
}

func (s *PostgresStore) FinishSyncRun(ctx context.Context, runID string, result SyncResult) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sync_runs SET status = $1, team_count = $2, error = $3, output_path = $4, finished_at = $5 WHERE id = $6`,
		string(result.Status), result.TeamCount, result.Error, result.OutputPath, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish sync run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("sync run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) ListSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, job, source, status, team_count, error, output_path, started_at, finished_at
		FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sync runs")
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var r model.SyncRun
		var finished *time.Time
		err := rows.Scan(&r.ID, &r.Job, &r.Source, &r.Status, &r.TeamCount, &r.Error, &r.OutputPath, &r.StartedAt, &finished)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan sync run")
		}
		if finished != nil {
			r.FinishedAt = finished
			r.DurationMS = finished.Sub(r.StartedAt).Milliseconds()
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list sync runs iterate")
}

func (s *PostgresStore) CacheGet(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv_cache WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: cache get")
	}
	return value, nil
}

func (s *PostgresStore) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expires = &t
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_cache (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, expires,
	)
	return eris.Wrap(err, "postgres: cache set")
}
