package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pressrun/internal/logging"
)

// SchemaVersion is written into every new record so the file format can
// evolve without guessing.
const SchemaVersion = 1

// Record is one publish or update event. CreatedAt is set for new posts,
// UpdatedAt for content updates.
type Record struct {
	PostID        string    `json:"post_id"`
	Title         string    `json:"title"`
	URL           string    `json:"url,omitempty"`
	Status        string    `json:"status"`
	UpdateType    string    `json:"update_type,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
	SchemaVersion int       `json:"schema_version"`
}

// Timestamp returns whichever event time the record carries.
func (r Record) Timestamp() time.Time {
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// Tracker is the append-only ledger of published posts. Records accumulate
// in memory and the whole file is rewritten atomically on every append, so a
// crash mid-write never truncates the ledger.
type Tracker struct {
	path    string
	logger  *slog.Logger
	mu      sync.Mutex
	records []Record
}

// NewTracker loads the ledger at path. An absent file starts an empty
// ledger; an unreadable one is an error rather than a silent reset, since a
// later Record call would otherwise clobber it.
func NewTracker(path string, logger *slog.Logger) (*Tracker, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	t := &Tracker{
		path:   path,
		logger: logging.NewComponentLogger(logger, "history"),
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// Record appends an event and persists the ledger. Duplicate post IDs are
// allowed: updates to the same post are separate events.
func (t *Tracker) Record(record Record) error {
	if strings.TrimSpace(record.PostID) == "" {
		return errors.New("post ID cannot be empty")
	}
	if record.SchemaVersion == 0 {
		record.SchemaVersion = SchemaVersion
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = append(t.records, record)
	if err := t.save(); err != nil {
		t.records = t.records[:len(t.records)-1]
		return fmt.Errorf("persist history: %w", err)
	}

	t.logger.Debug("recorded publish event",
		logging.String("post_id", record.PostID),
		logging.String("title", record.Title),
		logging.String("status", record.Status))
	return nil
}

// History returns all records in append order.
func (t *Tracker) History() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Count returns the number of recorded events.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

func (t *Tracker) load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse history file %s: %w", t.path, err)
	}
	t.records = records

	t.logger.Debug("loaded publish history",
		logging.Int("record_count", len(records)),
		logging.String("path", t.path))
	return nil
}

func (t *Tracker) save() error {
	data, err := json.MarshalIndent(t.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tmpPath := t.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
