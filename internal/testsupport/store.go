package testsupport

import (
	"context"
	"fmt"
	"testing"

	"pressrun/internal/config"
	"pressrun/internal/queue"
	"pressrun/internal/topics"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SampleTopic returns a minimal valid article request for tests. The name is
// folded into the topic and keywords so items stay distinguishable.
func SampleTopic(name string) topics.Topic {
	return topics.Topic{
		Topic:              fmt.Sprintf("How to Grow %s", name),
		PrimaryKeywords:    fmt.Sprintf("%s care", name),
		AdditionalKeywords: "beginner tips",
		TargetAudience:     "home gardeners",
		ToneStyle:          "friendly",
	}
}

// NewTopic enqueues a sample topic for tests using the provided store.
func NewTopic(t testing.TB, store *queue.Store, name, fingerprint string) *queue.Item {
	t.Helper()

	item, err := store.NewTopic(context.Background(), SampleTopic(name), fingerprint)
	if err != nil {
		t.Fatalf("store.NewTopic: %v", err)
	}
	return item
}
