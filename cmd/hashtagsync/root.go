package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hashtagsync",
	Short: "Sync Instagram hashtag media into an Airtable base",
	Long: `hashtagsync pulls top or recent media for a set of Instagram hashtags
via the Instagram Graph API and upserts them as post records in an Airtable
base, maintaining a many-to-many link between posts and the hashtags that
surfaced them.

The active tag list lives in the Airtable base itself: every row in the tags
table with the Active checkbox set is synced on each run. Runs are idempotent,
so the tool is safe to invoke from cron as often as rate limits allow.

Credentials are resolved from (in order):
  - A stored account (use 'hashtagsync auth login' to store one)
  - Environment variables (AIRTABLE_TOKEN, AIRTABLE_BASE_ID, IG_USER_ID, IG_TOKEN)
  - A config file (default: .hashtagsync.yaml)`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .hashtagsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}
