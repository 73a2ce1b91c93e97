package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/directory"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/repository"
)

// ErrorResponse is the error response body
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Error: message})
}

// callerEmail identifies the caller for audit entries.
func (s *Server) callerEmail(r *http.Request) string {
	if id := identityFrom(r.Context()); id != nil && id.Email != "" {
		return id.Email
	}
	return "api"
}

func (s *Server) auditAction(r *http.Request, action, entityType, entityID string, details map[string]any) {
	s.audit.Log(action, entityType, entityID, s.callerEmail(r), details)
}

// sendRepoError maps storage and directory errors onto HTTP statuses.
func (s *Server) sendRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.sendError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrProtected):
		s.sendError(w, http.StatusConflict, "entity is protected")
	case errors.Is(err, repository.ErrInvalidID):
		s.sendError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, repository.ErrDuplicateID):
		s.sendError(w, http.StatusBadRequest, "id already exists")
	case errors.Is(err, directory.ErrUnavailable):
		s.sendError(w, http.StatusBadGateway, "directory unavailable")
	default:
		s.logger.Error("internal error", "error", err)
		s.sendError(w, http.StatusInternalServerError, "internal error")
	}
}
