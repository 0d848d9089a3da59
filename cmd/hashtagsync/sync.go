package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hashtagsync/pkg/airtable"
	"hashtagsync/pkg/auth"
	"hashtagsync/pkg/config"
	"hashtagsync/pkg/instagram"
	"hashtagsync/pkg/logger"
	"hashtagsync/pkg/sync"
)

var (
	// Sync command flags
	accountName string
	mediaLimit  int
	mediaSource string
	tagDelayMS  int
	tagsTable   string
	postsTable  string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization pass",
	Long: `Run one synchronization pass over all active hashtags.

For each active tag in the Airtable tags table, the tag name is resolved to
an Instagram hashtag id, one page of media is fetched, and each media item is
upserted into the posts table keyed by its media id. Hashtag links on post
records accumulate across runs and are never removed.

The run exits zero once every tag has been attempted, even when individual
tags or media items were skipped or failed. It exits non-zero only on a
configuration error or when the initial active-tag listing fails.`,
	Example: `  # Sync using environment credentials
  hashtagsync sync

  # Sync using a stored account
  hashtagsync sync --account marketing

  # Pull recent media instead of top media, 35 items per tag
  hashtagsync sync --media-source recent --media-limit 35`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	syncCmd.Flags().IntVar(&mediaLimit, "media-limit", 0, "media items fetched per tag (default 20)")
	syncCmd.Flags().StringVar(&mediaSource, "media-source", "", "media edge to fetch: top or recent")
	syncCmd.Flags().IntVar(&tagDelayMS, "tag-delay-ms", 0, "delay between tags in milliseconds (default 800)")
	syncCmd.Flags().StringVar(&tagsTable, "tags-table", "", "Airtable tags table name")
	syncCmd.Flags().StringVar(&postsTable, "posts-table", "", "Airtable posts table name")
}

func runSync(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if mediaLimit > 0 {
		flags["media-limit"] = mediaLimit
	}
	if mediaSource != "" {
		flags["media-source"] = mediaSource
	}
	if tagDelayMS > 0 {
		flags["tag-delay"] = time.Duration(tagDelayMS) * time.Millisecond
	}
	if tagsTable != "" {
		flags["tags-table"] = tagsTable
	}
	if postsTable != "" {
		flags["posts-table"] = postsTable
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	// Stored account credentials merge in as flags so config.Load validates
	// the final values.
	if accountName != "" {
		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to open credential stores: %w", err)
		}
		account, err := manager.Retrieve(accountName)
		if err != nil {
			return err
		}
		flags["airtable-token"] = account.AirtableToken
		flags["airtable-base"] = account.AirtableBaseID
		flags["ig-user-id"] = account.InstagramUserID
		flags["ig-token"] = account.InstagramToken
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	log.InfoWithFields("starting sync run", map[string]interface{}{
		"media_source": cfg.Sync.MediaSource,
		"media_limit":  cfg.Sync.MediaLimit,
	})

	store := airtable.NewClient(&cfg.Airtable, cfg.Sync.RequestTimeout, log)
	provider := instagram.NewClient(&cfg.Instagram, cfg.Sync.RequestTimeout, log)
	engine := sync.New(store, provider, &cfg.Sync, log)

	report, err := engine.Run()
	if err != nil {
		log.WithError(err).Error("sync run failed")
		return err
	}

	log.Info("done")
	fmt.Printf("Done. %d tags processed, %d skipped, %d failed; %d posts created, %d updated, %d items failed.\n",
		report.TagsProcessed, report.TagsSkipped, report.TagsFailed,
		report.PostsCreated, report.PostsUpdated, report.ItemsFailed)

	return nil
}
