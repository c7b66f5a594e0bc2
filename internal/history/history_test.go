package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTrackerRecordAndHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	tracker, err := NewTracker(path, nil)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}

	first := Record{
		PostID:     "101",
		Title:      "First Post",
		Status:     "published",
		Images:     []string{"11", "12"},
		Categories: []string{"Article"},
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	second := Record{
		PostID:    "102",
		Title:     "Second Post",
		Status:    "scheduled",
		CreatedAt: time.Now(),
	}

	if err := tracker.Record(first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := tracker.Record(second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got := tracker.History()
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].PostID != "101" || got[1].PostID != "102" {
		t.Errorf("history should preserve append order: %v, %v", got[0].PostID, got[1].PostID)
	}
	if got[0].SchemaVersion != SchemaVersion {
		t.Errorf("expected schema version stamped, got %d", got[0].SchemaVersion)
	}
	if len(got[0].Images) != 2 {
		t.Errorf("unexpected images: %v", got[0].Images)
	}
}

func TestTrackerPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	first, err := NewTracker(path, nil)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	if err := first.Record(Record{PostID: "7", Title: "Kept", Status: "published", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second, err := NewTracker(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if second.Count() != 1 {
		t.Fatalf("expected 1 record after reload, got %d", second.Count())
	}
	if second.History()[0].Title != "Kept" {
		t.Errorf("unexpected record: %+v", second.History()[0])
	}
}

func TestTrackerAllowsDuplicatePostIDs(t *testing.T) {
	tracker, err := NewTracker(filepath.Join(t.TempDir(), "history.json"), nil)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}

	create := Record{PostID: "42", Title: "Post", Status: "published", CreatedAt: time.Now()}
	update := Record{PostID: "42", Title: "Post", Status: "published", UpdateType: "content_update", UpdatedAt: time.Now()}

	if err := tracker.Record(create); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := tracker.Record(update); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got := tracker.History()
	if len(got) != 2 {
		t.Fatalf("expected both events kept, got %d", len(got))
	}
	if got[1].UpdateType != "content_update" {
		t.Errorf("expected update event preserved, got %+v", got[1])
	}
	if got[1].Timestamp().IsZero() {
		t.Error("expected update timestamp")
	}
}

func TestTrackerAbsentFileStartsEmpty(t *testing.T) {
	tracker, err := NewTracker(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	if tracker.Count() != 0 {
		t.Errorf("expected empty ledger, got %d", tracker.Count())
	}
	if len(tracker.History()) != 0 {
		t.Error("expected no records")
	}
}

func TestTrackerCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := NewTracker(path, nil); err == nil {
		t.Fatal("expected error for corrupt ledger")
	}
}

func TestTrackerRejectsEmptyPostID(t *testing.T) {
	tracker, err := NewTracker(filepath.Join(t.TempDir(), "history.json"), nil)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	if err := tracker.Record(Record{Title: "No ID"}); err == nil {
		t.Fatal("expected error for empty post ID")
	}
	if tracker.Count() != 0 {
		t.Error("rejected record should not be kept")
	}
}

func TestTrackerFileIsReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	tracker, err := NewTracker(path, nil)
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	if err := tracker.Record(Record{PostID: "9", Title: "Readable", Status: "published", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	text := string(contents)
	if !strings.Contains(text, "\"post_id\": \"9\"") {
		t.Errorf("expected indented JSON with post_id, got: %s", text)
	}
	if strings.Contains(text, "updated_at") {
		t.Errorf("zero update time should be omitted, got: %s", text)
	}
}
