package api

import (
	"net/http"
	"strconv"
	"time"
)

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// StatsResponse is the response for GET /api/stats
type StatsResponse struct {
	Templates      int `json:"templates"`
	Assets         int `json:"assets"`
	Assignments    int `json:"assignments"`
	TrackedClients int `json:"trackedClients"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	// A failing template count means the database is gone.
	if _, err := s.templates.Count(); err != nil {
		s.sendJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "degraded",
			Version: s.version,
			Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		})
		return
	}

	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.Count()
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	assets, err := s.assets.Count()
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	assignments, err := s.assignments.Count()
	if err != nil {
		s.sendRepoError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, StatsResponse{
		Templates:      templates,
		Assets:         assets,
		Assignments:    assignments,
		TrackedClients: s.limiter.Size(),
	})
}

// handleAuditLog handles GET /api/audit
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.audit.Recent(limit)
	if err != nil {
		s.sendRepoError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, entries)
}
