// Package store persists the raw and processed team corpora, the sync
// log, and the byte cache used for embeddings and search results.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// SyncResult finalizes a sync run record.
type SyncResult struct {
	Status     model.SyncStatus
	TeamCount  int
	Error      string
	OutputPath string
}

// Store defines the persistence interface.
type Store interface {
	// Raw teams
	UpsertRawTeams(ctx context.Context, teams []model.RawTeam) (int, error)
	ListRawTeams(ctx context.Context) ([]model.RawTeam, error)
	UpdateRawTeam(ctx context.Context, team model.RawTeam) error
	CountRawTeams(ctx context.Context) (int, error)

	// Processed teams. ListTeams pages through the corpus and returns
	// the total count alongside each page.
	ReplaceTeams(ctx context.Context, teams []model.Team) error
	ListTeams(ctx context.Context, offset, limit int) ([]model.Team, int, error)
	GetTeam(ctx context.Context, id string) (*model.Team, error)

	// Sync log
	StartSyncRun(ctx context.Context, job model.SyncJob, source string) (*model.SyncRun, error)
	FinishSyncRun(ctx context.Context, runID string, result SyncResult) error
	ListSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error)

	// Byte cache with TTL. CacheGet returns (nil, nil) on a miss or an
	// expired entry.
	CacheGet(ctx context.Context, key string) ([]byte, error)
	CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// ErrTeamNotFound is returned by GetTeam when no team has the given id.
var ErrTeamNotFound = eris.New("store: team not found")
