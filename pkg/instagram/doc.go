// Package instagram provides a client for the Instagram Graph API hashtag
// endpoints.
//
// The client covers the two calls a sync run needs:
//   - ResolveHashtag: map a human-readable tag name to the provider's opaque
//     hashtag id via ig_hashtag_search
//   - FetchTopMedia / FetchRecentMedia: retrieve one bounded page of media
//     items for a resolved hashtag id with a fixed field set
//
// A hashtag search with zero matches resolves to an empty id, not an error.
// Transport and non-200 responses surface as *errors.Error with the provider
// type; the client never retries.
package instagram
