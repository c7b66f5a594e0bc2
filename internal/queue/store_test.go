package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pressrun/internal/queue"
	"pressrun/internal/testsupport"
	"pressrun/internal/topics"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewTopic(ctx, testsupport.SampleTopic("Tomatoes"), "fingerprint-1")
	if err != nil {
		t.Fatalf("NewTopic failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Topic != "How to Grow Tomatoes" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}

	found, err := store.FindByFingerprint(ctx, "fingerprint-1")
	if err != nil {
		t.Fatalf("FindByFingerprint failed: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("expected to find inserted item, got %#v", found)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.NewTopic(ctx, testsupport.SampleTopic("Basil"), "fp-reopen"); err != nil {
		t.Fatalf("NewTopic failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	items, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 surviving item, got %d", len(items))
	}
}

func TestNewTopicStoresFullRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	scheduled := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	request := topics.Topic{
		Topic:              "Raised Bed Gardening",
		PrimaryKeywords:    "raised beds",
		AdditionalKeywords: "soil mix, drainage",
		TargetAudience:     "urban gardeners",
		ToneStyle:          "practical",
		WordCount:          2500,
		Outline: &topics.Outline{Sections: []topics.Section{
			{Title: "Planning", Subsections: []string{"Materials", "Placement"}},
			{Title: "Planting"},
		}},
		Categories:    []string{"Gardening", "Lifestyle"},
		Tags:          []string{"beds", "soil"},
		VideoRequired: true,
		ScheduleAt:    &scheduled,
	}

	ctx := context.Background()
	item, err := store.NewTopic(ctx, request, "fp-full")
	if err != nil {
		t.Fatalf("NewTopic failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !fetched.VideoRequired {
		t.Fatal("expected video_required to survive the round trip")
	}
	if fetched.ScheduleAt == nil || !fetched.ScheduleAt.Equal(scheduled) {
		t.Fatalf("unexpected schedule_at: %v", fetched.ScheduleAt)
	}

	restored := fetched.Request()
	if restored.Topic != request.Topic || restored.PrimaryKeywords != request.PrimaryKeywords {
		t.Fatalf("unexpected restored request: %#v", restored)
	}
	if restored.WordCount != 2500 {
		t.Fatalf("expected word count 2500, got %d", restored.WordCount)
	}
	if restored.Outline == nil || len(restored.Outline.Sections) != 2 {
		t.Fatalf("expected 2 outline sections, got %#v", restored.Outline)
	}
	if restored.Outline.Sections[0].Title != "Planning" || len(restored.Outline.Sections[0].Subsections) != 2 {
		t.Fatalf("unexpected first section: %#v", restored.Outline.Sections[0])
	}
	if len(restored.Categories) != 2 || restored.Categories[1] != "Lifestyle" {
		t.Fatalf("unexpected categories: %#v", restored.Categories)
	}
	if len(restored.Tags) != 2 || restored.Tags[0] != "beds" {
		t.Fatalf("unexpected tags: %#v", restored.Tags)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	item, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil for missing item, got %#v", item)
	}
}

func TestUpdatePersistsStageOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewTopic(t, store, "Peppers", "fp-stage")

	item.Status = queue.StatusContentGenerated
	item.ContentJSON = `{"title":"Pepper Guide"}`
	item.MediaJSON = `{"images":[]}`
	item.ComposedBody = "composed text"
	item.PostID = "42"
	item.FeaturedMediaID = "77"
	item.SetProgressComplete("Generating", "Content ready")
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Status != queue.StatusContentGenerated {
		t.Fatalf("expected content_generated, got %s", updated.Status)
	}
	if updated.ContentJSON != `{"title":"Pepper Guide"}` {
		t.Fatalf("unexpected content JSON: %q", updated.ContentJSON)
	}
	if updated.PostID != "42" || updated.FeaturedMediaID != "77" {
		t.Fatalf("unexpected publish columns: %q %q", updated.PostID, updated.FeaturedMediaID)
	}
	if updated.ProgressPercent != 100 || updated.ProgressStage != "Generating" {
		t.Fatalf("unexpected progress: %v %q", updated.ProgressPercent, updated.ProgressStage)
	}
}

func TestUpdateProgressLeavesStageOutputAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewTopic(t, store, "Basil", "fp-progress")
	item.ContentJSON = `{"title":"Basil Guide"}`
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	item.ContentJSON = "should not be written"
	item.SetProgress("Generating", "Attempt 2", 40)
	if err := store.UpdateProgress(ctx, item); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	updated, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.ContentJSON != `{"title":"Basil Guide"}` {
		t.Fatalf("UpdateProgress touched content JSON: %q", updated.ContentJSON)
	}
	if updated.ProgressStage != "Generating" || updated.ProgressPercent != 40 {
		t.Fatalf("unexpected progress: %q %v", updated.ProgressStage, updated.ProgressPercent)
	}
	if updated.ProgressMessage != "Attempt 2" {
		t.Fatalf("unexpected progress message: %q", updated.ProgressMessage)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name          string
		initialStatus queue.Status
		expected      queue.Status
	}{
		{"generating", queue.StatusGenerating, queue.StatusPending},
		{"fetching_media", queue.StatusFetchingMedia, queue.StatusContentGenerated},
		{"composing", queue.StatusComposing, queue.StatusMediaFetched},
		{"publishing", queue.StatusPublishing, queue.StatusComposed},
		{"tracking", queue.StatusTracking, queue.StatusPublished},
	}
	var ids []int64
	for i, tc := range cases {
		item := testsupport.NewTopic(t, store, fmt.Sprintf("Reset %d", i), fmt.Sprintf("fp-reset-%d", i))
		item.Status = tc.initialStatus
		item.ProgressStage = tc.name
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, item.ID)
	}
	durable := testsupport.NewTopic(t, store, "Durable", "fp-durable")
	durable.Status = queue.StatusComposed
	if err := store.Update(ctx, durable); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if int(count) != len(cases) {
		t.Fatalf("expected %d items reset, got %d", len(cases), count)
	}

	for idx, tc := range cases {
		updated, err := store.GetByID(ctx, ids[idx])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if updated.Status != tc.expected {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.expected, updated.Status)
		}
	}

	untouched, err := store.GetByID(ctx, durable.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != queue.StatusComposed {
		t.Fatalf("expected durable item untouched, got %s", untouched.Status)
	}
}

func TestItemsByStatusOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewTopic(t, store, "First", "fp-a")
	b := testsupport.NewTopic(t, store, "Second", "fp-b")
	b.Status = queue.StatusContentGenerated
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	items, err := store.ItemsByStatus(ctx, queue.StatusContentGenerated)
	if err != nil {
		t.Fatalf("ItemsByStatus failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one generated item, got %d", len(items))
	}
	if items[0].Topic != "How to Grow Second" {
		t.Fatalf("expected second topic, got %s", items[0].Topic)
	}
}

func TestListSupportsStatusFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewTopic(t, store, "A", "fp-a")
	b := testsupport.NewTopic(t, store, "B", "fp-b")
	b.Status = queue.StatusContentGenerated
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	c := testsupport.NewTopic(t, store, "C", "fp-c")
	c.Status = queue.StatusFailed
	c.ErrorMessage = "boom"
	if err := store.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != a.ID || items[1].ID != b.ID || items[2].ID != c.ID {
		t.Fatalf("expected order A,B,C, got IDs %d,%d,%d", items[0].ID, items[1].ID, items[2].ID)
	}

	filtered, err := store.List(ctx, queue.StatusContentGenerated, queue.StatusFailed)
	if err != nil {
		t.Fatalf("Filtered list failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 items, got %d", len(filtered))
	}
	if filtered[0].ID != b.ID || filtered[1].ID != c.ID {
		t.Fatalf("unexpected filtered order: got %d,%d", filtered[0].ID, filtered[1].ID)
	}
}

func TestNextForStatusesReturnsOldest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewTopic(t, store, "Oldest", "fp-a")
	testsupport.NewTopic(t, store, "Newest", "fp-b")

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != a.ID {
		t.Fatalf("expected oldest pending item, got %#v", next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusCompleted)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil when no item matches, got %#v", none)
	}
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewTopic(t, store, "RetryA", "fp-a")
	b := testsupport.NewTopic(t, store, "RetryB", "fp-b")
	for _, item := range []*queue.Item{a, b} {
		item.Status = queue.StatusFailed
		item.ErrorMessage = "boom"
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	updated, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed all: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 items retried, got %d", updated)
	}

	item, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected item A pending, got %s", item.Status)
	}
	if item.ErrorMessage != "" {
		t.Fatalf("expected error message cleared, got %q", item.ErrorMessage)
	}

	// Mark B failed again and retry targeted selection.
	b.Status = queue.StatusFailed
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err = store.RetryFailed(ctx, b.ID)
	if err != nil {
		t.Fatalf("RetryFailed targeted: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 item retried, got %d", updated)
	}
}

func TestRemoveAndClearVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewTopic(t, store, "RemoveMe", "fp-a")

	removed, err := store.Remove(ctx, a.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("expected removal to report success")
	}
	removed, err = store.Remove(ctx, a.ID)
	if err != nil {
		t.Fatalf("Remove repeat: %v", err)
	}
	if removed {
		t.Fatal("expected second removal to report no rows")
	}

	done := testsupport.NewTopic(t, store, "Done", "fp-done")
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update: %v", err)
	}
	failed := testsupport.NewTopic(t, store, "Broken", "fp-broken")
	failed.Status = queue.StatusFailed
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update: %v", err)
	}
	testsupport.NewTopic(t, store, "Waiting", "fp-waiting")

	cleared, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 completed cleared, got %d", cleared)
	}

	cleared, err = store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 failed cleared, got %d", cleared)
	}

	cleared, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 remaining item cleared, got %d", cleared)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewTopic(t, store, "Pending", "fp-pending")
	working := testsupport.NewTopic(t, store, "Working", "fp-working")
	working.Status = queue.StatusPublishing
	if err := store.Update(ctx, working); err != nil {
		t.Fatalf("Update: %v", err)
	}
	done := testsupport.NewTopic(t, store, "Done", "fp-done")
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update: %v", err)
	}
	broken := testsupport.NewTopic(t, store, "Broken", "fp-broken")
	broken.Status = queue.StatusFailed
	if err := store.Update(ctx, broken); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[queue.StatusPending] != 1 || stats[queue.StatusPublishing] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 4 {
		t.Fatalf("expected total 4, got %d", health.Total)
	}
	if health.Pending != 1 || health.Processing != 1 || health.Failed != 1 || health.Completed != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}
