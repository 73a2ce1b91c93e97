package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
)

var (
	cfgFile   string
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "signatures",
	Short: "Centralized email signature management",
	Long:  `Server and admin tooling for centrally managed Outlook email signatures.`,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("signatures version %s\n", version)
		if commit != "unknown" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if buildTime != "unknown" {
			fmt.Printf("  built:  %s\n", buildTime)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(serveCmd, configCmd, versionCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("config file is required (use -c flag)")
	}
	return config.Load(cfgFile)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Printf("Configuration is valid\n")
	fmt.Printf("  Listen: %s\n", cfg.Server.ListenAddr)
	fmt.Printf("  Base URL: %s\n", cfg.Server.BaseURL)
	fmt.Printf("  Database: %s\n", cfg.Database.Path)
	fmt.Printf("  Directory: %s\n", cfg.Directory.Mode)
	if cfg.SMTP.Enabled {
		fmt.Printf("  SMTP: %s\n", cfg.SMTP.Addr)
	} else {
		fmt.Printf("  SMTP: disabled\n")
	}

	return nil
}
