package instagram

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"hashtagsync/pkg/config"
	"hashtagsync/pkg/errors"
	"hashtagsync/pkg/logger"
)

// Client is an Instagram Graph API client scoped to one business account
type Client struct {
	httpClient  *http.Client
	root        string
	userID      string
	accessToken string
	logger      logger.Logger
}

// NewClient creates a new Graph API client
func NewClient(cfg *config.InstagramConfig, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		root:        apiRoot(cfg.BaseURL, cfg.APIVersion),
		userID:      cfg.UserID,
		accessToken: cfg.AccessToken,
		logger:      log,
	}
}

// getJSON performs a GET request and decodes the JSON response. The access
// token travels in the URL, so log lines carry only the path.
func (c *Client) getJSON(endpoint string, target interface{}) error {
	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return errors.New(errors.ErrorTypeNetwork, 0, "graph api request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrorTypeProvider, resp.StatusCode, "%s: %s", resp.Request.URL.Path, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"path":         resp.Request.URL.Path,
			"status":       resp.StatusCode,
			"body_preview": preview,
		})
		return errors.New(errors.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON: %v", err)
	}

	return nil
}

// ResolveHashtag maps a tag name to the provider's opaque hashtag id. An
// empty id with a nil error means the provider knows no such hashtag, which
// is a common outcome for obscure or malformed tags.
func (c *Client) ResolveHashtag(name string) (string, error) {
	c.logger.DebugWithFields("resolving hashtag", map[string]interface{}{
		"tag": name,
	})

	var resp hashtagSearchResponse
	if err := c.getJSON(HashtagSearchURL(c.root, c.userID, name, c.accessToken), &resp); err != nil {
		return "", err
	}

	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].ID, nil
}

// FetchTopMedia retrieves one page of a hashtag's top-ranked media
func (c *Client) FetchTopMedia(hashtagID string, limit int) ([]MediaItem, error) {
	return c.fetchMedia(hashtagID, TopMediaEdge, limit)
}

// FetchRecentMedia retrieves one page of a hashtag's most recent media
func (c *Client) FetchRecentMedia(hashtagID string, limit int) ([]MediaItem, error) {
	return c.fetchMedia(hashtagID, RecentMediaEdge, limit)
}

// fetchMedia requests a single page of at most limit items from a media edge
func (c *Client) fetchMedia(hashtagID, edge string, limit int) ([]MediaItem, error) {
	c.logger.DebugWithFields("fetching hashtag media", map[string]interface{}{
		"hashtag_id": hashtagID,
		"edge":       edge,
		"limit":      limit,
	})

	var resp mediaResponse
	if err := c.getJSON(MediaURL(c.root, hashtagID, edge, c.userID, c.accessToken, limit), &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return []MediaItem{}, nil
	}
	return resp.Data, nil
}
