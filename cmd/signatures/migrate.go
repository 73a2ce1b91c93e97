package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply schema migrations and seed the default template and logo.

The serve command does this automatically on startup; migrate exists
for deployments that run schema changes as a separate step.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

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

	fmt.Printf("Migrations applied to %s\n", cfg.Database.Path)
	return nil
}
