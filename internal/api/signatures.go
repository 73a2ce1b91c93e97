package api

import (
	"net/http"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/embedding"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

// handleGetSignature handles GET /api/signature. Query parameters:
//
//	email      required, whose signature to render
//	templateId optional explicit template id
//	type       "full" (default) or "reply"
//	embed      "inline" (default), "url" or "cid"
func (s *Server) handleGetSignature(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	email := q.Get("email")
	if email == "" {
		s.sendError(w, http.StatusBadRequest, "email is required")
		return
	}

	mode, ok := embedding.ParseMode(q.Get("embed"))
	if !ok {
		s.sendError(w, http.StatusBadRequest, "embed must be inline, url or cid")
		return
	}
	variant := signature.ParseVariant(q.Get("type"))

	sig, err := s.composer.Compose(r.Context(), signature.Request{
		Email:      email,
		TemplateID: q.Get("templateId"),
		Variant:    variant,
		Mode:       mode,
	})
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.metrics.IncSignatureRendered(string(variant), string(mode))
	s.sendJSON(w, http.StatusOK, sig)
}
