// Package sync implements the hashtag-to-Airtable synchronization engine.
//
// A run loads the active tags from the store, then for each tag resolves the
// provider's hashtag id, fetches one page of media, and upserts every item
// into the posts table keyed by media id. Post records accumulate hashtag
// links additively across tags and across runs; a link is never removed.
//
// Failure isolation is the engine's main job: a tag that fails to resolve or
// fetch is logged and skipped, a media item that fails to read or write is
// logged and skipped, and the run still completes. Only the initial tag
// listing is load-bearing enough to fail the whole run.
package sync
