package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// maxAssetBytes caps uploaded images. Signatures travel in every mail,
// so oversized assets hurt each recipient.
const maxAssetBytes = 500 * 1024

// AssetCreateRequest is the request body for POST /api/assets
type AssetCreateRequest struct {
	ID       string `json:"customId,omitempty"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Base64   string `json:"data"`
	HTMLTag  string `json:"htmlTag,omitempty"`
}

// AssetUpdateRequest is the request body for PUT /api/assets/{id}.
// A present data field replaces the image content; the other fields
// update metadata only.
type AssetUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	HTMLTag  *string `json:"htmlTag,omitempty"`
	MimeType string  `json:"mimeType,omitempty"`
	Base64   *string `json:"data,omitempty"`
}

// validateAssetData checks that the payload is a base64 image of
// acceptable size.
func validateAssetData(mimeType, data string) string {
	if !strings.HasPrefix(mimeType, "image/") {
		return "mimeType must be an image type"
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "data must be valid base64"
	}
	if len(decoded) > maxAssetBytes {
		return "image exceeds the 500KB limit"
	}
	return ""
}

// handleListAssets handles GET /api/assets
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.assets.List()
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, assets)
}

// handleCreateAsset handles POST /api/assets
func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req AssetCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.MimeType == "" || req.Base64 == "" {
		s.sendError(w, http.StatusBadRequest, "name, mimeType and data are required")
		return
	}
	if msg := validateAssetData(req.MimeType, req.Base64); msg != "" {
		s.sendError(w, http.StatusBadRequest, msg)
		return
	}

	asset, err := s.assets.Create(req.Name, req.MimeType, req.Base64, req.ID, req.HTMLTag)
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.auditAction(r, "asset.create", "asset", asset.ID, map[string]any{"name": asset.Name})
	s.sendJSON(w, http.StatusCreated, asset)
}

// handleGetAsset handles GET /api/assets/{id}
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.assets.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, asset)
}

// handleUpdateAsset handles PUT /api/assets/{id}
func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req AssetUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")

	if req.Base64 != nil {
		mimeType := req.MimeType
		if mimeType == "" {
			existing, err := s.assets.GetByID(id)
			if err != nil {
				s.sendRepoError(w, err)
				return
			}
			mimeType = existing.MimeType
		}
		if msg := validateAssetData(mimeType, *req.Base64); msg != "" {
			s.sendError(w, http.StatusBadRequest, msg)
			return
		}

		asset, err := s.assets.ReplaceData(id, *req.Base64, req.MimeType)
		if err != nil {
			s.sendRepoError(w, err)
			return
		}
		s.auditAction(r, "asset.replace", "asset", id, nil)
		s.sendJSON(w, http.StatusOK, asset)
		return
	}

	asset, err := s.assets.UpdateMeta(id, req.Name, req.HTMLTag)
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	s.auditAction(r, "asset.update", "asset", id, nil)
	s.sendJSON(w, http.StatusOK, asset)
}

// handleDeleteAsset handles DELETE /api/assets/{id}
func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.assets.Delete(id); err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.auditAction(r, "asset.delete", "asset", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// handleServeAsset handles GET /api/assets/serve?id=. It decodes the
// stored image and serves it with long-lived cache headers for
// url-mode signatures.
func (s *Server) handleServeAsset(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.sendError(w, http.StatusBadRequest, "id is required")
		return
	}

	asset, err := s.assets.GetByID(id)
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	data, err := base64.StdEncoding.DecodeString(asset.RawBase64())
	if err != nil {
		s.logger.Error("stored asset is not valid base64", "id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "asset data corrupted")
		return
	}

	w.Header().Set("Content-Type", asset.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
