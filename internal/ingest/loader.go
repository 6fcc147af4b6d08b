// Package ingest loads scraped team artifacts into the raw team store.
package ingest

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/config"
	"github.com/pitchside-labs/sponsormatch/internal/fetcher"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/internal/store"
)

// Loader fetches, decodes, validates, and upserts raw team artifacts.
type Loader struct {
	store   store.Store
	http    *fetcher.HTTPFetcher
	ftp     *fetcher.FTPFetcher
	charset string
}

// NewLoader creates a Loader from config.
func NewLoader(st store.Store, cfg config.IngestConfig) *Loader {
	return &Loader{
		store:   st,
		http:    fetcher.NewHTTP(cfg.RequestsPerSecond, cfg.UserAgent),
		ftp:     fetcher.NewFTP(),
		charset: cfg.Encoding,
	}
}

// Result summarizes one ingest run.
type Result struct {
	Decoded int
	Loaded  int
	Skipped int
	RunID   string
}

// Load ingests one source (path or URL) and records a sync run.
func (l *Loader) Load(ctx context.Context, source string) (*Result, error) {
	run, err := l.store.StartSyncRun(ctx, model.SyncJobIngest, source)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: start run")
	}

	res, loadErr := l.load(ctx, source)
	if res == nil {
		res = &Result{}
	}
	res.RunID = run.ID

	final := store.SyncResult{Status: model.SyncStatusSuccess, TeamCount: res.Loaded}
	if loadErr != nil {
		final.Status = model.SyncStatusFailed
		final.Error = loadErr.Error()
	}
	if err := l.store.FinishSyncRun(ctx, run.ID, final); err != nil {
		zap.L().Error("ingest: finish run", zap.Error(err))
	}

	return res, loadErr
}

func (l *Loader) load(ctx context.Context, source string) (*Result, error) {
	artifact, err := fetcher.Open(ctx, source, l.http, l.ftp)
	if err != nil {
		return nil, err
	}
	defer artifact.Body.Close()

	rows, err := Decode(artifact.Body, artifact.Name, l.charset)
	if err != nil {
		return nil, err
	}

	res := &Result{Decoded: len(rows)}
	valid := make([]model.RawTeam, 0, len(rows))
	for i := range rows {
		t := &rows[i]
		if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.League) == "" {
			res.Skipped++
			zap.L().Warn("ingest: skipping row without name or league",
				zap.String("name", t.Name),
				zap.String("league", t.League),
			)
			continue
		}
		if t.ID == "" {
			t.ID = TeamID(t.Name, t.League)
		}
		valid = append(valid, *t)
	}

	n, err := l.store.UpsertRawTeams(ctx, valid)
	if err != nil {
		return res, eris.Wrap(err, "ingest: upsert raw teams")
	}
	res.Loaded = n

	zap.L().Info("ingest: load complete",
		zap.String("source", source),
		zap.Int("decoded", res.Decoded),
		zap.Int("loaded", res.Loaded),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// TeamID derives a stable id from the team's natural key so repeated
// ingests of the same artifact update rather than duplicate.
func TeamID(name, league string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(league))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
