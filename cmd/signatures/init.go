package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	initCompany   string
	initDomain    string
	initHostname  string
	initOutput    string
	initAPIKey    string
	initDataDir   string
	initDirMode   string
	initACME      bool
	initACMEEmail string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Interactive wizard to create a configuration file.

Examples:
  # Interactive mode - prompts for missing values
  signatures init

  # Non-interactive with all flags
  signatures init --company "Guschlbauer Backwaren GmbH" --domain guschlbauer.at --hostname sig.guschlbauer.at

  # Quick local setup with the mock directory
  signatures init --domain test.local --directory mock -o test.yaml`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initCompany, "company", "", "Company name shown in signatures")
	initCmd.Flags().StringVar(&initDomain, "domain", "", "Primary mail domain (e.g., guschlbauer.at)")
	initCmd.Flags().StringVar(&initHostname, "hostname", "", "Public server hostname (default: sig.<domain>)")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "config.yaml", "Output configuration file path")
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "Shared API key (auto-generated if not provided)")
	initCmd.Flags().StringVar(&initDataDir, "data-dir", "/var/lib/signatures", "Data directory for the database and certificates")
	initCmd.Flags().StringVar(&initDirMode, "directory", "graph", "Directory source: graph or mock")
	initCmd.Flags().BoolVar(&initACME, "acme", false, "Enable Let's Encrypt TLS")
	initCmd.Flags().StringVar(&initACMEEmail, "acme-email", "", "Email for the Let's Encrypt account")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Signature Server Configuration Wizard")
	fmt.Println("=====================================")
	fmt.Println()

	if initDomain == "" {
		initDomain = prompt(reader, "Mail domain (e.g., guschlbauer.at)", "")
		if initDomain == "" {
			return fmt.Errorf("domain is required")
		}
	}

	if initHostname == "" {
		initHostname = prompt(reader, "Server hostname", "sig."+initDomain)
	}

	if initCompany == "" {
		initCompany = prompt(reader, "Company name", "")
	}

	initDataDir = prompt(reader, "Data directory", initDataDir)

	if !initACME {
		answer := prompt(reader, "Enable Let's Encrypt TLS? [y/N]", "n")
		initACME = strings.ToLower(answer) == "y" || strings.ToLower(answer) == "yes"
	}
	if initACME && initACMEEmail == "" {
		initACMEEmail = prompt(reader, "Email for Let's Encrypt", "admin@"+initDomain)
	}

	if initAPIKey == "" {
		initAPIKey = generateRandomString(32)
		fmt.Printf("  Generated API key: %s\n", initAPIKey)
	}

	if !initForce {
		if _, err := os.Stat(initOutput); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", initOutput)
		}
	}

	fmt.Println()
	fmt.Println("Creating configuration...")

	if err := os.MkdirAll(initDataDir, 0755); err != nil {
		fmt.Printf("  Warning: Could not create data directory: %v\n", err)
	}

	if err := os.WriteFile(initOutput, []byte(generateConfig()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("  Configuration saved to: %s\n", initOutput)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review the configuration file")
	if initDirMode == "graph" {
		fmt.Println("  2. Fill in the Entra ID tenant, client id and client secret")
		fmt.Println("  3. Start the server: signatures serve -c " + initOutput)
	} else {
		fmt.Println("  2. Start the server: signatures serve -c " + initOutput)
	}

	return nil
}

func prompt(reader *bufio.Reader, question, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", question, defaultValue)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

func generateRandomString(length int) string {
	bytes := make([]byte, length/2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateConfig() string {
	tlsSection := `  # Uncomment to enable Let's Encrypt
  # tls:
  #   enabled: true
  #   acme:
  #     enabled: true
  #     email: "admin@` + initDomain + `"
  #     domains:
  #       - "` + initHostname + `"
  #     cache_dir: "` + initDataDir + `/certs"`
	if initACME {
		tlsSection = fmt.Sprintf(`  tls:
    enabled: true
    acme:
      enabled: true
      email: "%s"
      domains:
        - "%s"
      cache_dir: "%s/certs"`, initACMEEmail, initHostname, initDataDir)
	}

	directorySection := fmt.Sprintf(`directory:
  mode: %s
  company_name: "%s"
  internal_domains:
    - "%s"`, initDirMode, initCompany, initDomain)
	if initDirMode == "graph" {
		directorySection += `
  tenant_id: ""      # Entra ID tenant
  client_id: ""      # app registration with User.Read.All
  client_secret: ""`
	}

	return fmt.Sprintf(`# Signature server configuration
# Generated by: signatures init

server:
  listen_addr: ":8090"
  base_url: "https://%s"
  allowed_origins:
    - "https://outlook.office.com"
    - "https://outlook.office365.com"
%s

database:
  path: "%s/signatures.db"

auth:
  shared_secret: "%s"

%s

rate_limit:
  max_requests: 60
  window: 1m

smtp:
  enabled: false
  # addr: "mail.%s:587"
  # from: "signatures@%s"

logging:
  level: info
  format: json
`, initHostname, tlsSection, initDataDir, initAPIKey, directorySection, initDomain, initDomain)
}
