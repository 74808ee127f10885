package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"backlog-tracker/internal/model"
	"backlog-tracker/internal/repository"
)

// createGameRequest is the body for creating a game.
type createGameRequest struct {
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	Position      *int64     `json:"position"`
	HowLongToBeat *int64     `json:"how_long_to_beat"`
	MyGenre       *string    `json:"my_genre"`
	Thoughts      *string    `json:"thoughts"`
	MyScore       *float64   `json:"my_score"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
}

// updateGameRequest is the body for patching a game; nil fields are left
// unchanged.
type updateGameRequest struct {
	Name          *string    `json:"name"`
	Status        *string    `json:"status"`
	Position      *int64     `json:"position"`
	HowLongToBeat *int64     `json:"how_long_to_beat"`
	MyGenre       *string    `json:"my_genre"`
	Thoughts      *string    `json:"thoughts"`
	MyScore       *float64   `json:"my_score"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
}

// reorderRequest is the body for a positional move. TargetIndex is a pointer
// so a missing field is distinguishable from index 0.
type reorderRequest struct {
	TargetIndex *int   `json:"target_index"`
	Status      string `json:"status"`
}

func gameIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.List(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if games == nil {
		games = []*model.Game{}
	}
	s.writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid game id")
		return
	}

	game, err := s.games.Get(r.Context(), userID(r), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	game, err := s.games.Create(r.Context(), &model.Game{
		UserID:        userID(r),
		Name:          req.Name,
		Status:        req.Status,
		Position:      req.Position,
		HowLongToBeat: req.HowLongToBeat,
		MyGenre:       req.MyGenre,
		Thoughts:      req.Thoughts,
		MyScore:       req.MyScore,
		StartedAt:     req.StartedAt,
		FinishedAt:    req.FinishedAt,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, game)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid game id")
		return
	}

	var req updateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	game, err := s.games.Update(r.Context(), userID(r), id, repository.UpdateGameParams{
		Name:          req.Name,
		Status:        req.Status,
		Position:      req.Position,
		HowLongToBeat: req.HowLongToBeat,
		MyGenre:       req.MyGenre,
		Thoughts:      req.Thoughts,
		MyScore:       req.MyScore,
		StartedAt:     req.StartedAt,
		FinishedAt:    req.FinishedAt,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid game id")
		return
	}

	if err := s.games.Delete(r.Context(), userID(r), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReorderGame moves a game inside its rank group and returns the
// authoritative new ordering. Validation failures are rejected before any
// mutation.
func (s *Server) handleReorderGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid game id")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.TargetIndex == nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "target_index is required")
		return
	}
	if req.Status == "" {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "status is required")
		return
	}

	result, err := s.games.Reorder(r.Context(), userID(r), id, *req.TargetIndex, req.Status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRefreshMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid game id")
		return
	}

	blob, err := s.metadata.Refresh(r.Context(), userID(r), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blob)
}
