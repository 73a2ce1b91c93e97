package api

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/auth"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/directory"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/mailer"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/metrics"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/ratelimit"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/repository"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	templates   *repository.TemplateRepository
	assets      *repository.AssetRepository
	assignments *repository.AssignmentRepository
	audit       *repository.AuditRepository

	composer  *signature.Composer
	directory directory.Directory
	validator *auth.Validator
	limiter   *ratelimit.Limiter
	mailer    *mailer.Mailer
	metrics   *metrics.Metrics

	config    *config.Config
	logger    *slog.Logger
	version   string
	startTime time.Time
}

// Deps bundles everything the server needs.
type Deps struct {
	Templates   *repository.TemplateRepository
	Assets      *repository.AssetRepository
	Assignments *repository.AssignmentRepository
	Audit       *repository.AuditRepository
	Composer    *signature.Composer
	Directory   directory.Directory
	Validator   *auth.Validator
	Limiter     *ratelimit.Limiter
	Mailer      *mailer.Mailer // nil when test sending is disabled
	Metrics     *metrics.Metrics
	Version     string
}

// NewServer creates a new API server
func NewServer(deps Deps, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		templates:   deps.Templates,
		assets:      deps.Assets,
		assignments: deps.Assignments,
		audit:       deps.Audit,
		composer:    deps.Composer,
		directory:   deps.Directory,
		validator:   deps.Validator,
		limiter:     deps.Limiter,
		mailer:      deps.Mailer,
		metrics:     deps.Metrics,
		config:      cfg,
		logger:      logger,
		version:     deps.Version,
		startTime:   time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.metrics.HTTPMiddleware)
	s.router.Use(s.corsMiddleware)

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Public endpoints. Asset serving stays open because url-mode
		// signatures reference it from arbitrary mail clients.
		r.Get("/health", s.handleHealth)
		r.Get("/assets/serve", s.handleServeAsset)

		// Authenticated API
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitMiddleware)
			r.Use(s.authMiddleware)

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", s.handleListTemplates)
				r.Post("/", s.handleCreateTemplate)
				r.Get("/{id}", s.handleGetTemplate)
				r.Put("/{id}", s.handleUpdateTemplate)
				r.Patch("/{id}", s.handleUpdateTemplate)
				r.Delete("/{id}", s.handleDeleteTemplate)
				r.Post("/{id}/test", s.handleTestTemplate)
			})

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", s.handleListAssets)
				r.Post("/", s.handleCreateAsset)
				r.Get("/{id}", s.handleGetAsset)
				r.Put("/{id}", s.handleUpdateAsset)
				r.Patch("/{id}", s.handleUpdateAsset)
				r.Delete("/{id}", s.handleDeleteAsset)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleAssignTemplate)
			})

			r.Get("/signature", s.handleGetSignature)
			r.Get("/audit", s.handleAuditLog)
			r.Get("/stats", s.handleStats)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP API server", "addr", s.config.Server.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts the HTTPS server. Certificates come from
// tlsConfig, so both static key pairs and ACME-managed certificates work.
func (s *Server) ListenAndServeTLS(tlsConfig *tls.Config) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddr,
		Handler:      s.router,
		TLSConfig:    tlsConfig,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTPS API server", "addr", s.config.Server.ListenAddr)
	return s.httpServer.ListenAndServeTLS("", "")
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
