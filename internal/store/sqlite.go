package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Team records
// are kept as JSON documents beside a few indexed columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path with WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS raw_teams (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	league     TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS teams (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	region       TEXT NOT NULL DEFAULT '',
	league       TEXT NOT NULL DEFAULT '',
	value_tier   INTEGER NOT NULL DEFAULT 1,
	data         TEXT NOT NULL,
	processed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id          TEXT PRIMARY KEY,
	job         TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'running',
	team_count  INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	output_path TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS kv_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_raw_teams_league ON raw_teams(league);
CREATE INDEX IF NOT EXISTS idx_teams_name ON teams(name);
CREATE INDEX IF NOT EXISTS idx_teams_league ON teams(league);
CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);
CREATE INDEX IF NOT EXISTS idx_kv_cache_expires ON kv_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertRawTeams(ctx context.Context, teams []model.RawTeam) (int, error) {
	if len(teams) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO raw_teams (id, name, league, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			league = excluded.league,
			data = excluded.data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare raw team upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range teams {
		data, err := json.Marshal(&teams[i])
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal raw team %s", teams[i].Name)
		}
		if _, err := stmt.ExecContext(ctx, teams[i].ID, teams[i].Name, teams[i].League, string(data), now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert raw team %s", teams[i].Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return len(teams), nil
}

func (s *SQLiteStore) ListRawTeams(ctx context.Context) ([]model.RawTeam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM raw_teams ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list raw teams")
	}
	defer rows.Close()

	var teams []model.RawTeam
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan raw team")
		}
		var t model.RawTeam
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal raw team")
		}
		teams = append(teams, t)
	}
	return teams, eris.Wrap(rows.Err(), "sqlite: list raw teams iterate")
}

func (s *SQLiteStore) UpdateRawTeam(ctx context.Context, team model.RawTeam) error {
	data, err := json.Marshal(&team)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal raw team")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE raw_teams SET name = ?, league = ?, data = ?, updated_at = ? WHERE id = ?`,
		team.Name, team.League, string(data), time.Now().UTC(), team.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update raw team %s", team.ID)
	}
	return checkRowsAffected(res, "raw team", team.ID)
}

func (s *SQLiteStore) CountRawTeams(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_teams`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count raw teams")
}

func (s *SQLiteStore) ReplaceTeams(ctx context.Context, teams []model.Team) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace teams")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM teams`); err != nil {
		return eris.Wrap(err, "sqlite: clear teams")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO teams (id, name, region, league, value_tier, data, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare team insert")
	}
	defer stmt.Close()

	for i := range teams {
		t := &teams[i]
		data, err := json.Marshal(t)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal team %s", t.Name)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Name, t.Region, t.League, t.ValueTier, string(data), t.ProcessedAt); err != nil {
			return eris.Wrapf(err, "sqlite: insert team %s", t.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace teams")
}

func (s *SQLiteStore) ListTeams(ctx context.Context, offset, limit int) ([]model.Team, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count teams")
	}

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM teams ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list teams")
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan team")
		}
		var t model.Team
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: unmarshal team")
		}
		teams = append(teams, t)
	}
	return teams, total, eris.Wrap(rows.Err(), "sqlite: list teams iterate")
}

func (s *SQLiteStore) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM teams WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get team %s", id)
	}

	var t model.Team
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal team")
	}
	return &t, nil
}

func (s *SQLiteStore) StartSyncRun(ctx context.Context, job model.SyncJob, source string) (*model.SyncRun, error) {
	run := &model.SyncRun{
		ID:        uuid.New().String(),
		Job:       job,
		Source:    source,
		Status:    model.SyncStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, job, source, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, string(run.Job), run.Source, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert sync run")
	}
	return run, nil
}

func (s *SQLiteStore) FinishSyncRun(ctx context.Context, runID string, result SyncResult) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, team_count = ?, error = ?, output_path = ?, finished_at = ? WHERE id = ?`,
		string(result.Status), result.TeamCount, result.Error, result.OutputPath, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish sync run %s", runID)
	}
	return checkRowsAffected(res, "sync run", runID)
}

func (s *SQLiteStore) ListSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job, source, status, team_count, error, output_path, started_at, finished_at
		FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sync runs")
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var r model.SyncRun
		var finished sql.NullTime
		err := rows.Scan(&r.ID, &r.Job, &r.Source, &r.Status, &r.TeamCount, &r.Error, &r.OutputPath, &r.StartedAt, &finished)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sync run")
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
			r.DurationMS = t.Sub(r.StartedAt).Milliseconds()
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list sync runs iterate")
}

func (s *SQLiteStore) CacheGet(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM kv_cache
		WHERE key = ? AND (expires_at IS NULL OR expires_at > datetime('now'))`,
		key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: cache get")
	}
	return value, nil
}

func (s *SQLiteStore) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires any
	if ttl > 0 {
		expires = time.Now().UTC().Add(ttl)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_cache (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expires,
	)
	return eris.Wrap(err, "sqlite: cache set")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
