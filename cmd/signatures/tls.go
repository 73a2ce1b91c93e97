package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/tls"
)

var tlsCmd = &cobra.Command{
	Use:   "tls",
	Short: "TLS certificate commands",
}

var tlsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show TLS certificate status",
	RunE:  runTLSStatus,
}

func init() {
	tlsCmd.AddCommand(tlsStatusCmd)
	rootCmd.AddCommand(tlsCmd)
}

func runTLSStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.Server.TLS.Enabled {
		fmt.Println("TLS is not configured")
		return nil
	}

	if !cfg.Server.TLS.ACME.Enabled {
		info, err := tls.Inspect(cfg.Server.TLS.CertFile)
		if err != nil {
			return fmt.Errorf("failed to read certificate: %w", err)
		}
		fmt.Println("TLS Certificate (manual):")
		fmt.Printf("  File: %s\n", cfg.Server.TLS.CertFile)
		fmt.Printf("  Subject: %s\n", info.Subject)
		fmt.Printf("  Issuer: %s\n", info.Issuer)
		fmt.Printf("  Valid until: %s\n", info.NotAfter.Format(time.RFC3339))
		fmt.Printf("  Days left: %d\n", info.DaysLeft)
		return nil
	}

	provider, err := tls.NewProvider(cfg.Server.TLS)
	if err != nil {
		return err
	}

	certs := provider.CachedCertificates(context.Background())
	if len(certs) == 0 {
		fmt.Println("ACME certificates not found in cache.")
		fmt.Println("Certificates are obtained on the first TLS handshake after 'signatures serve' starts.")
		return nil
	}

	fmt.Println("ACME Certificates:")
	for _, cert := range certs {
		status := "OK"
		if cert.DaysLeft < 14 {
			status = "EXPIRING SOON"
		}
		fmt.Printf("  %s:\n", cert.Subject)
		fmt.Printf("    Valid until: %s\n", cert.NotAfter.Format(time.RFC3339))
		fmt.Printf("    Days left: %d\n", cert.DaysLeft)
		fmt.Printf("    Status: %s\n", status)
	}

	return nil
}
