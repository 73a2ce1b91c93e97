package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// UserWithTemplate pairs a directory user with their assigned template.
type UserWithTemplate struct {
	*models.DirectoryUser
	TemplateID string `json:"templateId,omitempty"`
}

// AssignRequest is the request body for POST /api/users
type AssignRequest struct {
	UserEmail  string `json:"email"`
	TemplateID string `json:"templateId"`
}

// handleListUsers handles GET /api/users. Directory users are joined
// with their template assignments.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.directory.ListUsers(r.Context())
	if err != nil {
		s.metrics.IncDirectoryLookup("error")
		s.sendRepoError(w, err)
		return
	}
	s.metrics.IncDirectoryLookup("ok")

	assignments, err := s.assignments.List()
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	byEmail := make(map[string]string, len(assignments))
	for _, a := range assignments {
		byEmail[strings.ToLower(a.UserEmail)] = a.TemplateID
	}

	out := make([]UserWithTemplate, 0, len(users))
	for _, u := range users {
		out = append(out, UserWithTemplate{
			DirectoryUser: u,
			TemplateID:    byEmail[strings.ToLower(u.Email())],
		})
	}

	s.sendJSON(w, http.StatusOK, out)
}

// handleAssignTemplate handles POST /api/users
func (s *Server) handleAssignTemplate(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserEmail == "" || req.TemplateID == "" {
		s.sendError(w, http.StatusBadRequest, "email and templateId are required")
		return
	}

	// The template must exist before an assignment can point at it.
	if _, err := s.templates.GetByID(req.TemplateID); err != nil {
		s.sendRepoError(w, err)
		return
	}

	if err := s.assignments.Assign(req.UserEmail, req.TemplateID); err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.auditAction(r, "user.assign", "user", req.UserEmail, map[string]any{"templateId": req.TemplateID})
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}
