package publishing

import (
	"context"
	"testing"
	"time"

	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/services/wordpress"
	"pressrun/internal/testsupport"
)

func TestStagePrepareSetsProgress(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewTopic(t, store, "Tomatoes", "")

	pub := New(&fakePostClient{}, config.WordPress{}, logging.NewNop())
	stg := NewStage(store, pub, logging.NewNop())

	if err := stg.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.ProgressStage != "Publishing" || stored.ProgressMessage != "Submitting post" {
		t.Fatalf("unexpected progress: %q %q", stored.ProgressStage, stored.ProgressMessage)
	}
}

func TestStageExecuteStoresPostID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewTopic(t, store, "Tomatoes", "")
	item.ContentJSON = draftJSON(t, "Tomato Care Guide", "", "Body text.")
	item.ComposedBody = "Body text."

	client := &fakePostClient{post: wordpress.Post{ID: 77, Link: "https://blog.example.com/?p=77"}}
	pub := New(client, config.WordPress{}, logging.NewNop())
	stg := NewStage(store, pub, logging.NewNop())

	if err := stg.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.PostID != "77" {
		t.Fatalf("expected stored post ID 77, got %q", item.PostID)
	}
	if item.ProgressPercent != 100 || item.ProgressMessage != "Published post 77" {
		t.Fatalf("unexpected progress: %v %q", item.ProgressPercent, item.ProgressMessage)
	}
}

func TestStageExecuteReportsSchedule(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewTopic(t, store, "Tomatoes", "")
	item.ContentJSON = draftJSON(t, "Tomato Care Guide", "", "Body text.")
	item.ComposedBody = "Body text."
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	item.ScheduleAt = &at

	client := &fakePostClient{post: wordpress.Post{ID: 78, Status: "future"}}
	pub := New(client, config.WordPress{}, logging.NewNop())
	stg := NewStage(store, pub, logging.NewNop())

	if err := stg.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.ProgressMessage != "Scheduled post 78" {
		t.Fatalf("unexpected progress message: %q", item.ProgressMessage)
	}
}

func TestStageHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	pub := New(&fakePostClient{}, config.WordPress{}, logging.NewNop())
	healthy := NewStage(store, pub, logging.NewNop())
	if health := healthy.HealthCheck(context.Background()); !health.Ready || health.Name != "publishing" {
		t.Fatalf("expected healthy stage, got %+v", health)
	}

	unconfigured := NewStage(store, nil, logging.NewNop())
	if health := unconfigured.HealthCheck(context.Background()); health.Ready {
		t.Fatalf("expected unhealthy stage, got %+v", health)
	}
}
