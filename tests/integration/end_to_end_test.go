package integration

import (
	"testing"
	"time"

	"hashtagsync/pkg/airtable"
	"hashtagsync/pkg/config"
	"hashtagsync/pkg/instagram"
	"hashtagsync/pkg/logger"
	"hashtagsync/pkg/sync"
)

// testHarness wires the real clients and engine against the mock servers
type testHarness struct {
	graph  *MockGraphServer
	base   *MockAirtableServer
	engine *sync.Engine
	log    *logger.TestLogger
}

func newTestHarness(t *testing.T, mediaSource string) *testHarness {
	t.Helper()

	graph := NewMockGraphServer()
	t.Cleanup(graph.Close)

	base := NewMockAirtableServer()
	t.Cleanup(base.Close)

	cfg := config.DefaultConfig()
	cfg.Airtable.Token = "pat_integration"
	cfg.Airtable.BaseID = "appINTEGRATION"
	cfg.Airtable.BaseURL = base.GetURL()
	cfg.Instagram.UserID = "17841400000000000"
	cfg.Instagram.AccessToken = "EAAintegration"
	cfg.Instagram.BaseURL = graph.GetURL()
	cfg.Sync.MediaSource = mediaSource
	cfg.Sync.TagDelay = time.Millisecond

	log := logger.NewTestLogger()
	store := airtable.NewClient(&cfg.Airtable, 5*time.Second, log)
	provider := instagram.NewClient(&cfg.Instagram, 5*time.Second, log)

	return &testHarness{
		graph:  graph,
		base:   base,
		engine: sync.New(store, provider, &cfg.Sync, log),
		log:    log,
	}
}

func graphMedia(id string, likes, comments int) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"media_type":     "IMAGE",
		"media_url":      "https://cdn.example.com/" + id + ".jpg",
		"permalink":      "https://www.instagram.com/p/" + id + "/",
		"caption":        "caption " + id,
		"like_count":     likes,
		"comments_count": comments,
		"timestamp":      1700000000,
	}
}

// postByMediaID finds the single posts-table record carrying a media id
func (h *testHarness) postByMediaID(t *testing.T, mediaID string) *mockRecord {
	t.Helper()

	var found *mockRecord
	for _, rec := range h.base.Records(config.DefaultPostsTable) {
		if rec.Fields[airtable.FieldMediaID] == mediaID {
			if found != nil {
				t.Fatalf("duplicate post records for media id %s", mediaID)
			}
			r := rec
			found = &r
		}
	}
	if found == nil {
		t.Fatalf("no post record for media id %s", mediaID)
	}
	return found
}

func linkIDs(rec *mockRecord) []string {
	raw, _ := rec.Fields[airtable.FieldHashtags].([]interface{})
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids
}

func TestEndToEndSync(t *testing.T) {
	h := newTestHarness(t, config.MediaSourceTop)

	tagA := h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "sunset",
		airtable.FieldActive:  true,
	})
	tagB := h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "goldenhour",
		airtable.FieldActive:  true,
	})
	h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "paused",
		airtable.FieldActive:  false,
	})

	h.graph.AddHashtag("sunset", "h_sunset")
	h.graph.AddHashtag("goldenhour", "h_golden")
	h.graph.AddMedia("h_sunset", graphMedia("m1", 5, 3))
	h.graph.AddMedia("h_sunset", graphMedia("m2", 10, 0))
	h.graph.AddMedia("h_golden", graphMedia("m2", 10, 0)) // shared with sunset

	report, err := h.engine.Run()
	if err != nil {
		t.Fatalf("sync run failed: %v", err)
	}

	if report.TagsProcessed != 2 {
		t.Errorf("expected 2 tags processed, got %d", report.TagsProcessed)
	}
	if report.PostsCreated != 2 {
		t.Errorf("expected 2 posts created, got %d", report.PostsCreated)
	}
	if report.PostsUpdated != 1 {
		t.Errorf("expected 1 post updated for the shared item, got %d", report.PostsUpdated)
	}

	m1 := h.postByMediaID(t, "m1")
	if got := m1.Fields[airtable.FieldScore]; got != float64(530) {
		t.Errorf("expected score 530 for m1, got %v", got)
	}
	if got := m1.Fields[airtable.FieldTimestamp]; got != "2023-11-14T22:13:20Z" {
		t.Errorf("unexpected timestamp for m1: %v", got)
	}
	if links := linkIDs(m1); len(links) != 1 || links[0] != tagA {
		t.Errorf("expected m1 linked to %s only, got %v", tagA, links)
	}

	m2 := h.postByMediaID(t, "m2")
	links := linkIDs(m2)
	if len(links) != 2 || links[0] != tagA || links[1] != tagB {
		t.Errorf("expected m2 linked to both tags in order, got %v", links)
	}
}

func TestEndToEndIdempotence(t *testing.T) {
	h := newTestHarness(t, config.MediaSourceTop)

	tagA := h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "sunset",
		airtable.FieldActive:  true,
	})
	h.graph.AddHashtag("sunset", "h_sunset")
	h.graph.AddMedia("h_sunset", graphMedia("m1", 5, 3))

	if _, err := h.engine.Run(); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	report, err := h.engine.Run()
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if report.PostsCreated != 0 || report.PostsUpdated != 1 {
		t.Errorf("second run should only update, got created=%d updated=%d",
			report.PostsCreated, report.PostsUpdated)
	}

	posts := h.base.Records(config.DefaultPostsTable)
	if len(posts) != 1 {
		t.Fatalf("expected exactly one post record after two runs, got %d", len(posts))
	}
	if links := linkIDs(h.postByMediaID(t, "m1")); len(links) != 1 || links[0] != tagA {
		t.Errorf("expected link set unchanged after second run, got %v", links)
	}
}

func TestEndToEndTagIsolation(t *testing.T) {
	h := newTestHarness(t, config.MediaSourceTop)

	h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "broken",
		airtable.FieldActive:  true,
	})
	h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "unknown",
		airtable.FieldActive:  true,
	})
	h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "fine",
		airtable.FieldActive:  true,
	})

	h.graph.SetSearchError("broken", 500)
	// "unknown" resolves to nothing.
	h.graph.AddHashtag("fine", "h_fine")
	h.graph.AddMedia("h_fine", graphMedia("m9", 1, 1))

	report, err := h.engine.Run()
	if err != nil {
		t.Fatalf("sync run failed: %v", err)
	}

	if report.TagsFailed != 1 {
		t.Errorf("expected 1 failed tag, got %d", report.TagsFailed)
	}
	if report.TagsSkipped != 1 {
		t.Errorf("expected 1 skipped tag, got %d", report.TagsSkipped)
	}
	if report.TagsProcessed != 1 {
		t.Errorf("expected 1 processed tag, got %d", report.TagsProcessed)
	}
	h.postByMediaID(t, "m9")
}

func TestEndToEndLinkGrowth(t *testing.T) {
	// A post seeded by an earlier run keeps its links when a new tag
	// surfaces the same media item.
	h := newTestHarness(t, config.MediaSourceTop)

	h.base.Seed(config.DefaultPostsTable, map[string]interface{}{
		airtable.FieldMediaID:  "m1",
		airtable.FieldHashtags: []interface{}{"recRETIRED"},
	})

	tagB := h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "goldenhour",
		airtable.FieldActive:  true,
	})
	h.graph.AddHashtag("goldenhour", "h_golden")
	h.graph.AddMedia("h_golden", graphMedia("m1", 2, 2))

	if _, err := h.engine.Run(); err != nil {
		t.Fatalf("sync run failed: %v", err)
	}

	links := linkIDs(h.postByMediaID(t, "m1"))
	if len(links) != 2 || links[0] != "recRETIRED" || links[1] != tagB {
		t.Errorf("expected links to grow additively, got %v", links)
	}
}

func TestEndToEndRecentMediaSource(t *testing.T) {
	h := newTestHarness(t, config.MediaSourceRecent)

	h.base.Seed(config.DefaultTagsTable, map[string]interface{}{
		airtable.FieldTagName: "sunset",
		airtable.FieldActive:  true,
	})
	h.graph.AddHashtag("sunset", "h_sunset")
	h.graph.AddMedia("h_sunset", graphMedia("m1", 0, 0))

	report, err := h.engine.Run()
	if err != nil {
		t.Fatalf("sync run failed: %v", err)
	}
	if report.PostsCreated != 1 {
		t.Errorf("expected 1 post from recent_media, got %d", report.PostsCreated)
	}
}
