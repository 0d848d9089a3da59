// Package ratelimit provides pacing primitives for outbound API calls.
//
// The Graph API hashtag endpoints are aggressively rate limited per app and
// per user, so the sync engine spaces its per-tag request bursts a fixed
// interval apart instead of firing them back to back.
//
// Usage:
//
//	pacer := ratelimit.NewFixedInterval(800 * time.Millisecond)
//
//	for _, tag := range tags {
//	    pacer.Pace() // first call returns immediately
//	    processTag(tag)
//	}
package ratelimit
