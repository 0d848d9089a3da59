package instagram

// Media types returned by the Graph API hashtag edges
const (
	MediaTypeImage         = "IMAGE"
	MediaTypeVideo         = "VIDEO"
	MediaTypeCarouselAlbum = "CAROUSEL_ALBUM"
)

// MediaItem is a single post-like object returned for a hashtag
type MediaItem struct {
	ID            string `json:"id"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	Permalink     string `json:"permalink"`
	Caption       string `json:"caption"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
	// Timestamp is seconds since epoch
	Timestamp int64 `json:"timestamp"`
}

// hashtagSearchResponse is the shape of an ig_hashtag_search response
type hashtagSearchResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// mediaResponse is the shape of a top_media / recent_media response
type mediaResponse struct {
	Data []MediaItem `json:"data"`
}
