package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/addin"
)

var (
	insertDraft     string
	insertUser      string
	insertTo        []string
	insertManual    bool
	insertDomains   []string
	insertCompany   string
	insertVerbose   bool
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert the signature into a draft file",
	Long: `Insert the managed signature into an HTML draft file.

The variant (full or reply) is decided from the draft thread and the
recipient list, the same way the compose event handler does it.

Examples:
  # New compose
  sigaddin insert --draft draft.html --user max.mustermann@guschlbauer.at

  # Recipients known, internal thread
  sigaddin insert --draft draft.html --user max@guschlbauer.at --to anna@guschlbauer.at

  # Explicit toolbar action
  sigaddin insert --draft draft.html --user max@guschlbauer.at --manual`,
	RunE: runInsert,
}

func init() {
	insertCmd.Flags().StringVar(&insertDraft, "draft", "", "Path to the draft HTML file (required)")
	insertCmd.Flags().StringVar(&insertUser, "user", "", "Email address of the sender (required)")
	insertCmd.Flags().StringSliceVar(&insertTo, "to", nil, "To recipients of the draft")
	insertCmd.Flags().BoolVar(&insertManual, "manual", false, "Behave like the explicit toolbar action")
	insertCmd.Flags().StringSliceVar(&insertDomains, "internal-domain", []string{"guschlbauer.at", "guschlbauer.cc"}, "Domains considered internal")
	insertCmd.Flags().StringVar(&insertCompany, "company", "Guschlbauer Backwaren GmbH", "Company name for the offline fallback")
	insertCmd.Flags().BoolVar(&insertVerbose, "verbose", false, "Log controller decisions")
	insertCmd.MarkFlagRequired("draft")
	insertCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(insertCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	fetcher, cache, err := openFetcher()
	if err != nil {
		return err
	}
	defer cache.Close()

	logOut := io.Discard
	if insertVerbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	host := &fileHost{
		draftPath:  insertDraft,
		email:      insertUser,
		recipients: insertTo,
		company:    insertCompany,
	}

	ctrl := addin.NewController(host, fetcher, addin.ControllerConfig{
		InternalDomains: insertDomains,
		CompanyName:     insertCompany,
		CacheTTL:        addin.DefaultCacheTTL,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if insertManual {
		err = ctrl.InsertManually(ctx)
	} else {
		err = ctrl.OnNewCompose(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to insert signature: %w", err)
	}

	return nil
}
