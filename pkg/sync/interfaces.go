package sync

import (
	"hashtagsync/pkg/airtable"
	"hashtagsync/pkg/instagram"
)

// Store is the subset of the Airtable client the engine depends on
type Store interface {
	// ListActiveTags returns the active tags in table order
	ListActiveTags() ([]airtable.Tag, error)

	// FindTagByName looks up a tag case-insensitively; (nil, nil) when absent
	FindTagByName(name string) (*airtable.Tag, error)

	// CreateTag creates an active tag record
	CreateTag(name string) (*airtable.Tag, error)

	// FindPostByMediaID returns the post record for a media id; (nil, nil)
	// when absent
	FindPostByMediaID(mediaID string) (*airtable.Record, error)

	// CreatePost inserts a new post record and returns its id
	CreatePost(fields airtable.Fields) (string, error)

	// UpdatePost partially updates a post record
	UpdatePost(id string, fields airtable.Fields) error
}

// Provider is the subset of the Instagram client the engine depends on
type Provider interface {
	// ResolveHashtag maps a tag name to a hashtag id; "" when unknown
	ResolveHashtag(name string) (string, error)

	// FetchTopMedia retrieves one page of top-ranked media
	FetchTopMedia(hashtagID string, limit int) ([]instagram.MediaItem, error)

	// FetchRecentMedia retrieves one page of most recent media
	FetchRecentMedia(hashtagID string, limit int) ([]instagram.MediaItem, error)
}
