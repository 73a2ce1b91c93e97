package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

var (
	fetchUser  string
	fetchType  string
	fetchPlain bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a rendered signature and print it",
	RunE:  runFetch,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "cache-purge",
	Short: "Drop all locally cached signatures",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cache, err := openFetcher()
		if err != nil {
			return err
		}
		defer cache.Close()
		if err := cache.Purge(); err != nil {
			return fmt.Errorf("failed to purge cache: %w", err)
		}
		fmt.Println("Cache purged")
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchUser, "user", "", "Email address of the user (required)")
	fetchCmd.Flags().StringVar(&fetchType, "type", "full", "Signature variant: full or reply")
	fetchCmd.Flags().BoolVar(&fetchPlain, "plain", false, "Print the plain text version")
	fetchCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(fetchCmd, cachePurgeCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fetcher, cache, err := openFetcher()
	if err != nil {
		return err
	}
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sig, err := fetcher.Fetch(ctx, fetchUser, signature.ParseVariant(fetchType))
	if err != nil {
		return fmt.Errorf("failed to fetch signature: %w", err)
	}

	if fetchPlain {
		fmt.Println(sig.PlainText)
	} else {
		fmt.Println(sig.HTML)
	}
	return nil
}
