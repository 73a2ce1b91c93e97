// sigaddin is the companion binary for the Outlook add-in. It runs on
// end user machines, talks to the signature server and manipulates
// local draft files on behalf of the add-in host.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/client"
)

var (
	serverURL string
	apiKey    string
	cacheFile string
	version   = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sigaddin",
	Short: "Outlook signature add-in companion",
	Long:  `Fetches centrally managed signatures and inserts them into drafts.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sigaddin version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "Signature server URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("SIGADDIN_API_KEY"), "API key for the signature server")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache", defaultCachePath(), "Path to the local signature cache")

	rootCmd.AddCommand(versionCmd)
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "guschlbauer-signatures", "cache.db")
}

// openFetcher wires the API client with the persistent cache. The
// caller must Close the returned cache.
func openFetcher() (*client.CachingFetcher, *client.BoltCache, error) {
	cache, err := client.NewBoltCache(cacheFile, 5*time.Minute)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return client.NewCachingFetcher(client.NewClient(serverURL, apiKey), cache), cache, nil
}
