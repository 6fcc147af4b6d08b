package model

import "time"

// SyncJob names a background job type recorded in the sync log.
type SyncJob string

const (
	SyncJobIngest     SyncJob = "ingest"
	SyncJobPreprocess SyncJob = "preprocess"
	SyncJobSocial     SyncJob = "socialsync"
)

// SyncStatus represents the state of a sync run.
type SyncStatus string

const (
	SyncStatusRunning SyncStatus = "running"
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailed  SyncStatus = "failed"
)

// SyncRun records one ingest, preprocess, or social refresh run.
type SyncRun struct {
	ID         string     `json:"id"`
	Job        SyncJob    `json:"job"`
	Source     string     `json:"source,omitempty"` // file path or URL for ingest runs
	Status     SyncStatus `json:"status"`
	TeamCount  int        `json:"team_count"`
	Error      string     `json:"error,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// CorpusStatus summarizes the store contents for the status surfaces.
type CorpusStatus struct {
	RawTeams       int       `json:"raw_teams"`
	ProcessedTeams int       `json:"processed_teams"`
	LastRuns       []SyncRun `json:"last_runs,omitempty"`
}
