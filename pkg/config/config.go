package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "hashtagsync/pkg/errors"
)

// Media source edges supported by the Graph API hashtag node.
const (
	MediaSourceTop    = "top"
	MediaSourceRecent = "recent"
)

// Defaults matching the Airtable base this tool was built against.
const (
	DefaultTagsTable  = "Hashtags"
	DefaultPostsTable = "HashtagPosts"
)

// Config holds all configuration options for the hashtag sync tool
type Config struct {
	// Airtable connection and table names
	Airtable AirtableConfig `yaml:"airtable" json:"airtable"`

	// Instagram Graph API credentials
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Sync run behavior
	Sync SyncConfig `yaml:"sync" json:"sync"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AirtableConfig holds Airtable-specific configuration
type AirtableConfig struct {
	Token      string `yaml:"token" json:"token"`
	BaseID     string `yaml:"base_id" json:"base_id"`
	TagsTable  string `yaml:"tags_table" json:"tags_table"`
	PostsTable string `yaml:"posts_table" json:"posts_table"`
	BaseURL    string `yaml:"base_url" json:"base_url"`
}

// InstagramConfig holds Instagram Graph API configuration
type InstagramConfig struct {
	UserID      string `yaml:"user_id" json:"user_id"`
	AccessToken string `yaml:"access_token" json:"access_token"`
	BaseURL     string `yaml:"base_url" json:"base_url"`
	APIVersion  string `yaml:"api_version" json:"api_version"`
}

// SyncConfig holds sync run configuration
type SyncConfig struct {
	MediaLimit     int           `yaml:"media_limit" json:"media_limit"`
	MediaSource    string        `yaml:"media_source" json:"media_source"`
	TagDelay       time.Duration `yaml:"tag_delay" json:"tag_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Airtable: AirtableConfig{
			TagsTable:  DefaultTagsTable,
			PostsTable: DefaultPostsTable,
			BaseURL:    "https://api.airtable.com/v0",
		},
		Instagram: InstagramConfig{
			BaseURL:    "https://graph.facebook.com",
			APIVersion: "v23.0",
		},
		Sync: SyncConfig{
			MediaLimit:     20,
			MediaSource:    MediaSourceTop,
			TagDelay:       800 * time.Millisecond,
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables. Credential
// variables keep the names the Airtable base automation has always used.
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("AIRTABLE_TOKEN"); token != "" {
		c.Airtable.Token = token
	}
	if baseID := os.Getenv("AIRTABLE_BASE_ID"); baseID != "" {
		c.Airtable.BaseID = baseID
	}
	if table := os.Getenv("AIRTABLE_TABLE_TAGS"); table != "" {
		c.Airtable.TagsTable = table
	}
	if table := os.Getenv("AIRTABLE_TABLE_POSTS"); table != "" {
		c.Airtable.PostsTable = table
	}

	if userID := os.Getenv("IG_USER_ID"); userID != "" {
		c.Instagram.UserID = userID
	}
	if token := os.Getenv("IG_TOKEN"); token != "" {
		c.Instagram.AccessToken = token
	}

	if limit := os.Getenv("HASHTAGSYNC_MEDIA_LIMIT"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 {
			c.Sync.MediaLimit = val
		}
	}
	if source := os.Getenv("HASHTAGSYNC_MEDIA_SOURCE"); source != "" {
		c.Sync.MediaSource = strings.ToLower(source)
	}
	if delay := os.Getenv("HASHTAGSYNC_TAG_DELAY_MS"); delay != "" {
		if val, err := strconv.Atoi(delay); err == nil && val >= 0 {
			c.Sync.TagDelay = time.Duration(val) * time.Millisecond
		}
	}

	if logLevel := os.Getenv("HASHTAGSYNC_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("HASHTAGSYNC_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".hashtagsync.yaml",
		".hashtagsync.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "hashtagsync", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "hashtagsync", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".hashtagsync.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Missing credentials are a
// fatal startup condition, caught here before any network call.
func (c *Config) Validate() error {
	var errs []error

	if c.Airtable.Token == "" {
		errs = append(errs, errors.New("Airtable token is required"))
	}
	if c.Airtable.BaseID == "" {
		errs = append(errs, errors.New("Airtable base ID is required"))
	}
	if c.Airtable.TagsTable == "" {
		errs = append(errs, errors.New("Airtable tags table name is required"))
	}
	if c.Airtable.PostsTable == "" {
		errs = append(errs, errors.New("Airtable posts table name is required"))
	}

	if c.Instagram.UserID == "" {
		errs = append(errs, errors.New("Instagram user ID is required"))
	}
	if c.Instagram.AccessToken == "" {
		errs = append(errs, errors.New("Instagram access token is required"))
	}

	if c.Sync.MediaLimit <= 0 {
		errs = append(errs, errors.New("media limit must be positive"))
	}
	if c.Sync.MediaSource != MediaSourceTop && c.Sync.MediaSource != MediaSourceRecent {
		errs = append(errs, errors.New("media source must be \"top\" or \"recent\""))
	}
	if c.Sync.TagDelay < 0 {
		errs = append(errs, errors.New("tag delay cannot be negative"))
	}
	if c.Sync.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return apperrors.New(apperrors.ErrorTypeConfig, 0, "%v", errors.Join(errs...))
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["airtable-token"].(string); ok && token != "" {
		c.Airtable.Token = token
	}
	if baseID, ok := flags["airtable-base"].(string); ok && baseID != "" {
		c.Airtable.BaseID = baseID
	}
	if table, ok := flags["tags-table"].(string); ok && table != "" {
		c.Airtable.TagsTable = table
	}
	if table, ok := flags["posts-table"].(string); ok && table != "" {
		c.Airtable.PostsTable = table
	}
	if userID, ok := flags["ig-user-id"].(string); ok && userID != "" {
		c.Instagram.UserID = userID
	}
	if token, ok := flags["ig-token"].(string); ok && token != "" {
		c.Instagram.AccessToken = token
	}
	if limit, ok := flags["media-limit"].(int); ok && limit > 0 {
		c.Sync.MediaLimit = limit
	}
	if source, ok := flags["media-source"].(string); ok && source != "" {
		c.Sync.MediaSource = strings.ToLower(source)
	}
	if delay, ok := flags["tag-delay"].(time.Duration); ok && delay >= 0 {
		c.Sync.TagDelay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".hashtagsync.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
