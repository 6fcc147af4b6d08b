// Package socialsync refreshes raw team follower counts from the
// social stats service.
package socialsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pitchside-labs/sponsormatch/internal/config"
	"github.com/pitchside-labs/sponsormatch/internal/metrics"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/internal/resilience"
	"github.com/pitchside-labs/sponsormatch/internal/store"
)

// Job refreshes follower counts for every raw team with social handles.
// Individual fetch failures are logged and skipped; the run only fails
// on store errors.
type Job struct {
	store   store.Store
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewJob creates a social stats refresh job from config.
func NewJob(st store.Store, cfg config.SocialConfig) *Job {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	return &Job{
		store:   st,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: cfg.StatsBaseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retry:   retry,
	}
}

// Result summarizes one refresh run.
type Result struct {
	TeamsUpdated   int
	HandlesFetched int
	HandlesFailed  int
}

// Run executes the refresh and records a sync log entry.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	run, err := j.store.StartSyncRun(ctx, model.SyncJobSocial, j.baseURL)
	if err != nil {
		return nil, eris.Wrap(err, "socialsync: start run")
	}

	res, runErr := j.refresh(ctx)

	final := store.SyncResult{Status: model.SyncStatusSuccess}
	if res != nil {
		final.TeamCount = res.TeamsUpdated
	}
	if runErr != nil {
		final.Status = model.SyncStatusFailed
		final.Error = runErr.Error()
	}
	if err := j.store.FinishSyncRun(ctx, run.ID, final); err != nil {
		zap.L().Error("socialsync: finish run", zap.Error(err))
	}

	return res, runErr
}

func (j *Job) refresh(ctx context.Context) (*Result, error) {
	teams, err := j.store.ListRawTeams(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "socialsync: list raw teams")
	}

	res := &Result{}
	for i := range teams {
		team := &teams[i]
		if len(team.SocialHandles) == 0 {
			continue
		}

		updated := false
		for _, h := range team.SocialHandles {
			if err := j.limiter.Wait(ctx); err != nil {
				return res, eris.Wrap(err, "socialsync: rate limit wait")
			}

			count, err := j.fetchFollowers(ctx, h)
			if err != nil {
				metrics.SocialSyncAttemptsTotal.WithLabelValues("error").Inc()
				res.HandlesFailed++
				zap.L().Warn("socialsync: fetch failed",
					zap.String("team", team.Name),
					zap.String("platform", string(h.Platform)),
					zap.String("handle", h.Handle),
					zap.Error(err),
				)
				continue
			}

			metrics.SocialSyncAttemptsTotal.WithLabelValues("success").Inc()
			res.HandlesFetched++
			team.SetFollowerCount(h.Platform, count)
			updated = true
		}

		if updated {
			now := time.Now().UTC()
			team.LastEnriched = &now
			if err := j.store.UpdateRawTeam(ctx, *team); err != nil {
				return res, eris.Wrapf(err, "socialsync: update team %s", team.ID)
			}
			res.TeamsUpdated++
		}
	}

	zap.L().Info("socialsync: refresh complete",
		zap.Int("teams_updated", res.TeamsUpdated),
		zap.Int("handles_fetched", res.HandlesFetched),
		zap.Int("handles_failed", res.HandlesFailed),
	)
	return res, nil
}

// statsResponse is the stats service payload for one handle.
type statsResponse struct {
	Followers int64 `json:"followers"`
}

func (j *Job) fetchFollowers(ctx context.Context, h model.SocialHandle) (int64, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", j.baseURL, url.PathEscape(string(h.Platform)), url.PathEscape(h.Handle))

	cfg := j.retry
	cfg.OnRetry = resilience.RetryLogger("socialstats", string(h.Platform))

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (int64, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return 0, eris.Wrap(err, "socialsync: build request")
		}

		resp, err := j.client.Do(req)
		if err != nil {
			return 0, eris.Wrapf(err, "socialsync: GET %s", endpoint)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("socialsync: GET %s: status %d", endpoint, resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return 0, resilience.NewTransientError(err, resp.StatusCode)
			}
			return 0, err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, eris.Wrap(err, "socialsync: read body")
		}

		var sr statsResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			return 0, eris.Wrap(err, "socialsync: parse stats response")
		}
		return sr.Followers, nil
	})
}
