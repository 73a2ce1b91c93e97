package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/embedding"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/mailer"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

// handleListTemplates handles GET /api/templates
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.List()
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, templates)
}

// handleCreateTemplate handles POST /api/templates
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input models.TemplateCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == "" {
		s.sendError(w, http.StatusBadRequest, "name is required")
		return
	}
	if input.HTML == "" {
		s.sendError(w, http.StatusBadRequest, "htmlContent is required")
		return
	}

	tmpl, err := s.templates.Create(&input, s.callerEmail(r))
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.auditAction(r, "template.create", "template", tmpl.ID, map[string]any{"name": tmpl.Name})
	s.sendJSON(w, http.StatusCreated, tmpl)
}

// handleGetTemplate handles GET /api/templates/{id}
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templates.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, tmpl)
}

// handleUpdateTemplate handles PUT /api/templates/{id}
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var input models.TemplateUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	tmpl, err := s.templates.Update(id, &input)
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.auditAction(r, "template.update", "template", id, nil)
	s.sendJSON(w, http.StatusOK, tmpl)
}

// handleDeleteTemplate handles DELETE /api/templates/{id}
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.templates.Delete(id); err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.auditAction(r, "template.delete", "template", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// TestSendRequest is the request body for POST /api/templates/{id}/test
type TestSendRequest struct {
	To string `json:"to"`
}

// handleTestTemplate handles POST /api/templates/{id}/test. The
// template is rendered for the recipient and mailed out so its looks
// can be checked in a real client.
func (s *Server) handleTestTemplate(w http.ResponseWriter, r *http.Request) {
	if s.mailer == nil {
		s.sendError(w, http.StatusServiceUnavailable, "test sending is not configured")
		return
	}

	var req TestSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := mailer.ValidateRecipient(req.To); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid recipient address")
		return
	}

	sig, err := s.composer.Compose(r.Context(), signature.Request{
		Email:      req.To,
		TemplateID: chi.URLParam(r, "id"),
		Variant:    signature.VariantFull,
		Mode:       embedding.ModeCID,
	})
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	if err := s.mailer.SendTest(r.Context(), req.To, sig); err != nil {
		s.metrics.IncTestSend("error")
		s.logger.Error("test send failed", "to", req.To, "error", err)
		s.sendError(w, http.StatusBadGateway, "test send failed")
		return
	}

	s.metrics.IncTestSend("ok")
	s.auditAction(r, "template.test", "template", sig.TemplateID, map[string]any{"to": req.To})
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
