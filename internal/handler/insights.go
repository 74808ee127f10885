package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/pkg/db"
)

// setStatusRankRequest is the body for assigning a sort rank to a status.
type setStatusRankRequest struct {
	Rank *int `json:"rank"`
}

// handleGetInsights serves the aggregated backlog report. The weekly pace
// and unresolved-name flag come from query parameters so reports with
// different shapes cache under different keys.
func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	pace := 0
	if raw := r.URL.Query().Get("pace"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeBadRequest, "pace must be an integer")
			return
		}
		pace = parsed
	}

	includeMissing := false
	if raw := r.URL.Query().Get("include_missing"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeBadRequest, "include_missing must be a boolean")
			return
		}
		includeMissing = parsed
	}

	report, err := s.insights.Get(r.Context(), userID(r), pace, includeMissing)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListStatusRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := s.games.ListStatusRanks(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if ranks == nil {
		ranks = []*model.StatusRank{}
	}
	s.writeJSON(w, http.StatusOK, ranks)
}

func (s *Server) handleSetStatusRank(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	if status == "" {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "status is required")
		return
	}

	var req setStatusRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.Rank == nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "rank is required")
		return
	}

	if err := s.games.SetStatusRank(r.Context(), status, *req.Rank); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// healthResponse reports liveness plus a pool snapshot for dashboards.
type healthResponse struct {
	Status string        `json:"status"`
	Pool   *db.PoolStats `json:"pool,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.HealthCheck(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("Health check failed")
		s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	stats := s.health.Stats()
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Pool: &stats})
}
