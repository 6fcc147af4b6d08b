package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/metrics"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/internal/present"
	"github.com/pitchside-labs/sponsormatch/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cacheKey := searchCacheKey(req)
	if s.cfg.Search.CacheEnabled {
		if cached, err := s.store.CacheGet(r.Context(), cacheKey); err == nil && cached != nil {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	resp, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		zap.L().Error("server: search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if s.cfg.Search.CacheEnabled {
		if body, err := json.Marshal(resp); err == nil {
			ttl := time.Duration(s.cfg.Search.CacheTTLMinutes) * time.Minute
			if err := s.store.CacheSet(r.Context(), cacheKey, body, ttl); err != nil {
				zap.L().Warn("server: cache search results failed", zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// searchCacheKey hashes the canonical JSON of the request. Field order
// in the struct is fixed, so identical requests hash identically.
func searchCacheKey(req model.SearchRequest) string {
	body, _ := json.Marshal(req)
	sum := sha256.Sum256(body)
	return "search:" + hex.EncodeToString(sum[:])
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := s.loadTeam(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"team":           team,
		"price_estimate": present.EstimatePrice(team),
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis unavailable: no generative model configured")
		return
	}
	team, ok := s.loadTeam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.Analyze(r.Context(), team))
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	if s.campaign == nil {
		writeError(w, http.StatusServiceUnavailable, "campaign generation unavailable: no generative model configured")
		return
	}
	team, ok := s.loadTeam(w, r)
	if !ok {
		return
	}

	// Params are optional; an empty body means defaults.
	var params model.CampaignParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, s.campaign.Generate(r.Context(), team, params))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rawCount, err := s.store.CountRawTeams(r.Context())
	if err != nil {
		zap.L().Error("server: count raw teams failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}
	_, total, err := s.store.ListTeams(r.Context(), 0, 1)
	if err != nil {
		zap.L().Error("server: count teams failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}
	runs, err := s.store.ListSyncRuns(r.Context(), 10)
	if err != nil {
		zap.L().Error("server: list sync runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}

	writeJSON(w, http.StatusOK, model.CorpusStatus{
		RawTeams:       rawCount,
		ProcessedTeams: total,
		LastRuns:       runs,
	})
}

// loadTeam fetches the path's team and writes the error response itself
// when the lookup fails.
func (s *Server) loadTeam(w http.ResponseWriter, r *http.Request) (*model.Team, bool) {
	id := chi.URLParam(r, "id")
	team, err := s.store.GetTeam(r.Context(), id)
	if err != nil {
		if eris.Is(err, store.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, "team not found")
			return nil, false
		}
		zap.L().Error("server: get team failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return nil, false
	}
	return team, true
}
