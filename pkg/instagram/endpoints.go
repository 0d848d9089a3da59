package instagram

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// HashtagSearchEndpoint resolves a tag name to a hashtag id
	HashtagSearchEndpoint = "ig_hashtag_search"

	// TopMediaEdge and RecentMediaEdge are the two media edges a hashtag
	// node exposes
	TopMediaEdge    = "top_media"
	RecentMediaEdge = "recent_media"

	// DefaultMediaLimit is the page size requested when none is configured
	DefaultMediaLimit = 20

	// MaxMediaLimit is the largest page the media edges will serve
	MaxMediaLimit = 50

	// MediaFields is the field set requested for every media item
	MediaFields = "id,media_type,media_url,permalink,caption,like_count,comments_count,timestamp"
)

// apiRoot joins the Graph API base URL and version
func apiRoot(baseURL, apiVersion string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + apiVersion
}

// HashtagSearchURL constructs the URL for resolving a tag name
func HashtagSearchURL(root, userID, tag, accessToken string) string {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("q", tag)
	params.Set("access_token", accessToken)

	return fmt.Sprintf("%s/%s?%s", root, HashtagSearchEndpoint, params.Encode())
}

// MediaURL constructs the URL for fetching one page of a hashtag's media edge
func MediaURL(root, hashtagID, edge, userID, accessToken string, limit int) string {
	if limit <= 0 {
		limit = DefaultMediaLimit
	} else if limit > MaxMediaLimit {
		limit = MaxMediaLimit
	}

	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("fields", MediaFields)
	params.Set("access_token", accessToken)
	params.Set("limit", strconv.Itoa(limit))

	return fmt.Sprintf("%s/%s/%s?%s", root, url.PathEscape(hashtagID), edge, params.Encode())
}
