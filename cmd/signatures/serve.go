package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/api"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/auth"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/db"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/directory"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/mailer"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/metrics"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/ratelimit"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/repository"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/tls"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the signature API server",
	Long:  `Start the HTTP API server that renders and manages email signatures.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := database.Seed(cfg.Directory.CompanyName); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	var dir directory.Directory
	switch cfg.Directory.Mode {
	case "graph":
		dir = directory.NewGraphDirectory(cfg.Directory, logger)
	default:
		dir = directory.NewMockDirectory(cfg.Directory.CompanyName)
	}

	ctx := context.Background()
	validator, err := auth.NewValidator(ctx, cfg.Auth, logger)
	if err != nil {
		return fmt.Errorf("failed to set up auth: %w", err)
	}

	var sender *mailer.Mailer
	if cfg.SMTP.Enabled {
		sender, err = mailer.New(cfg.SMTP, logger)
		if err != nil {
			return fmt.Errorf("failed to set up mailer: %w", err)
		}
	}

	templates := repository.NewTemplateRepository(database.DB)
	assets := repository.NewAssetRepository(database.DB)

	server := api.NewServer(api.Deps{
		Templates:   templates,
		Assets:      assets,
		Assignments: repository.NewAssignmentRepository(database.DB),
		Audit:       repository.NewAuditRepository(database.DB, logger),
		Composer:    signature.NewComposer(templates, assets, dir, logger, cfg.Directory.CompanyName, cfg.Server.BaseURL),
		Directory:   dir,
		Validator:   validator,
		Limiter:     ratelimit.NewLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
		Mailer:      sender,
		Metrics:     metrics.New(),
		Version:     version,
	}, cfg, logger)

	errCh := make(chan error, 2)

	provider, err := tls.NewProvider(cfg.Server.TLS)
	if err != nil {
		return err
	}

	if provider != nil {
		if provider.UsesACME() {
			// HTTP-01 challenges arrive on port 80.
			go func() {
				errCh <- http.ListenAndServe(":80", provider.ChallengeHandler(nil))
			}()
		}
		go func() {
			errCh <- server.ListenAndServeTLS(provider.Config())
		}()
	} else {
		go func() {
			errCh <- server.ListenAndServe()
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case sig := <-stop:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
