package sync

import (
	"fmt"
	"time"

	"hashtagsync/pkg/airtable"
	"hashtagsync/pkg/config"
	"hashtagsync/pkg/instagram"
	"hashtagsync/pkg/logger"
	"hashtagsync/pkg/ratelimit"
)

// Report summarizes one sync run
type Report struct {
	TagsProcessed int
	TagsSkipped   int
	TagsFailed    int
	PostsCreated  int
	PostsUpdated  int
	ItemsFailed   int
}

// Fields returns the report counters as log fields
func (r *Report) Fields() map[string]interface{} {
	return map[string]interface{}{
		"tags_processed": r.TagsProcessed,
		"tags_skipped":   r.TagsSkipped,
		"tags_failed":    r.TagsFailed,
		"posts_created":  r.PostsCreated,
		"posts_updated":  r.PostsUpdated,
		"items_failed":   r.ItemsFailed,
	}
}

// Engine orchestrates one synchronization pass from the provider to the store
type Engine struct {
	store    Store
	provider Provider
	pacer    ratelimit.Pacer
	cfg      *config.SyncConfig
	logger   logger.Logger
}

// New creates a new sync engine
func New(store Store, provider Provider, cfg *config.SyncConfig, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}

	delay := cfg.TagDelay
	if delay <= 0 {
		delay = 800 * time.Millisecond
	}

	return &Engine{
		store:    store,
		provider: provider,
		pacer:    ratelimit.NewFixedInterval(delay),
		cfg:      cfg,
		logger:   log,
	}
}

// Run executes one synchronization pass. Tags and media items are processed
// strictly one at a time, in listing order: the sequencing keeps provider
// rate limits predictable and makes the read-merge-write on a post record
// race-free even when the same media id surfaces under two tags in one run.
//
// Only a failed tag listing is fatal. Everything below that level is logged,
// counted, and skipped.
func (e *Engine) Run() (*Report, error) {
	report := &Report{}

	tags, err := e.store.ListActiveTags()
	if err != nil {
		return nil, fmt.Errorf("listing active tags: %w", err)
	}

	if len(tags) == 0 {
		e.logger.Info("no active tags, nothing to do")
		return report, nil
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	e.logger.InfoWithFields("active tags loaded", map[string]interface{}{
		"count": len(tags),
		"tags":  names,
	})

	for _, tag := range tags {
		e.pacer.Pace()
		e.syncTag(tag, report)
	}

	e.logger.InfoWithFields("sync run complete", report.Fields())
	return report, nil
}

// syncTag processes a single tag: resolve, fetch, upsert each media item
func (e *Engine) syncTag(tag airtable.Tag, report *Report) {
	log := e.logger.WithField("tag", tag.Name)

	hashtagID, err := e.provider.ResolveHashtag(tag.Name)
	if err != nil {
		log.WithError(err).Error("hashtag resolution failed, skipping tag")
		report.TagsFailed++
		return
	}
	if hashtagID == "" {
		log.Warn("no hashtag id found, skipping tag")
		report.TagsSkipped++
		return
	}

	media, err := e.fetchMedia(hashtagID)
	if err != nil {
		log.WithError(err).Error("media fetch failed, skipping tag")
		report.TagsFailed++
		return
	}

	log.InfoWithFields("media fetched", map[string]interface{}{
		"hashtag_id": hashtagID,
		"count":      len(media),
	})

	// Tags read from the listing already carry a record id; a tag that
	// arrived by name only gets one lazily.
	tagRecordID := tag.ID
	if tagRecordID == "" {
		tagRecordID, err = e.ensureTagRecord(tag.Name)
		if err != nil {
			log.WithError(err).Error("could not resolve tag record id, skipping tag")
			report.TagsFailed++
			return
		}
	}

	for _, item := range media {
		created, err := e.upsertPost(item, tagRecordID)
		if err != nil {
			log.WithError(err).WithField("media_id", item.ID).Error("post upsert failed")
			report.ItemsFailed++
			continue
		}
		if created {
			report.PostsCreated++
		} else {
			report.PostsUpdated++
		}
	}

	report.TagsProcessed++
}

// fetchMedia requests one page from the configured media edge
func (e *Engine) fetchMedia(hashtagID string) ([]instagram.MediaItem, error) {
	limit := e.cfg.MediaLimit
	if limit <= 0 {
		limit = instagram.DefaultMediaLimit
	}

	if e.cfg.MediaSource == config.MediaSourceRecent {
		return e.provider.FetchRecentMedia(hashtagID, limit)
	}
	return e.provider.FetchTopMedia(hashtagID, limit)
}

// ensureTagRecord returns the record id for a tag name, creating the record
// when the base does not have one yet. Runs inside the sequential tag loop,
// so two lazy creates for the same name cannot race.
func (e *Engine) ensureTagRecord(name string) (string, error) {
	tag, err := e.store.FindTagByName(name)
	if err != nil {
		return "", err
	}
	if tag != nil {
		return tag.ID, nil
	}

	created, err := e.store.CreateTag(name)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// upsertPost creates or updates the post record for a media item, keyed by
// media id. The hashtag link set only ever grows: an update carries the link
// field only when the current tag is not linked yet, so a partial update
// cannot clobber links added by earlier runs or earlier tags.
func (e *Engine) upsertPost(item instagram.MediaItem, tagRecordID string) (bool, error) {
	existing, err := e.store.FindPostByMediaID(item.ID)
	if err != nil {
		return false, err
	}

	fields := postFields(item)

	if existing != nil {
		links := existing.LinkedIDs(airtable.FieldHashtags)
		if !containsString(links, tagRecordID) {
			fields[airtable.FieldHashtags] = append(links, tagRecordID)
		}
		return false, e.store.UpdatePost(existing.ID, fields)
	}

	fields[airtable.FieldHashtags] = []string{tagRecordID}
	_, err = e.store.CreatePost(fields)
	return true, err
}

// Score ranks a post by engagement. If the destination column is a computed
// field the store ignores the write, so the value is safe to send always.
func Score(likeCount, commentsCount int) int {
	return likeCount*100 + commentsCount*10
}

// postFields builds the scalar field payload for a media item
func postFields(item instagram.MediaItem) airtable.Fields {
	return airtable.Fields{
		airtable.FieldMediaID:       item.ID,
		airtable.FieldMediaType:     item.MediaType,
		airtable.FieldMediaURL:      item.MediaURL,
		airtable.FieldPermalink:     item.Permalink,
		airtable.FieldCaption:       item.Caption,
		airtable.FieldLikeCount:     item.LikeCount,
		airtable.FieldCommentsCount: item.CommentsCount,
		airtable.FieldTimestamp:     time.Unix(item.Timestamp, 0).UTC().Format(time.RFC3339),
		airtable.FieldScore:         Score(item.LikeCount, item.CommentsCount),
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
