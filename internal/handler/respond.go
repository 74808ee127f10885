package handler

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"backlog-tracker/internal/reorder"
	"backlog-tracker/internal/repository"
	"backlog-tracker/internal/service"
)

// Stable error codes of the API's error envelope.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeInternal     = "internal"
)

// errorResponse is the structured error envelope: a stable machine-readable
// code plus a human-readable message, never internal stack detail.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	s.writeJSON(w, statusCode, errorResponse{Code: code, Message: message})
}

// writeServiceError maps domain errors onto the error taxonomy.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrStatusRequired),
		errors.Is(err, reorder.ErrInvalidIndex):
		s.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrStatusNotRanked),
		errors.Is(err, reorder.ErrNotFound),
		errors.Is(err, service.ErrMetadataNotFound):
		s.writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Msg("Internal error")
		s.writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
