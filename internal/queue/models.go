package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending          Status = "pending"
	StatusGenerating       Status = "generating"
	StatusContentGenerated Status = "content_generated"
	StatusFetchingMedia    Status = "fetching_media"
	StatusMediaFetched     Status = "media_fetched"
	StatusComposing        Status = "composing"
	StatusComposed         Status = "composed"
	StatusPublishing       Status = "publishing"
	StatusPublished        Status = "published"
	StatusTracking         Status = "tracking"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusGenerating,
	StatusContentGenerated,
	StatusFetchingMedia,
	StatusMediaFetched,
	StatusComposing,
	StatusComposed,
	StatusPublishing,
	StatusPublished,
	StatusTracking,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusGenerating:    {},
	StatusFetchingMedia: {},
	StatusComposing:     {},
	StatusPublishing:    {},
	StatusTracking:      {},
}

type statusTransition struct {
	from Status
	to   Status
}

// stageRollbackTransitions return an interrupted processing status to the
// most recent durable status, so a crashed run resumes the stage instead of
// restarting the whole pipeline.
var stageRollbackTransitions = []statusTransition{
	{from: StatusGenerating, to: StatusPending},
	{from: StatusFetchingMedia, to: StatusContentGenerated},
	{from: StatusComposing, to: StatusMediaFetched},
	{from: StatusPublishing, to: StatusComposed},
	{from: StatusTracking, to: StatusPublished},
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Item represents a queue item persisted in SQLite. Topic columns mirror the
// input file; the remaining fields accumulate stage output as the item moves
// through the pipeline.
type Item struct {
	ID                 int64
	Topic              string
	PrimaryKeywords    string
	AdditionalKeywords string
	TargetAudience     string
	ToneStyle          string
	WordCount          int
	OutlineJSON        string
	Categories         string
	Tags               string
	VideoRequired      bool
	ScheduleAt         *time.Time
	Status             Status
	Fingerprint        string
	ContentJSON        string
	MediaJSON          string
	ComposedBody       string
	PostID             string
	FeaturedMediaID    string
	ErrorMessage       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ProgressStage      string
	ProgressPercent    float64
	ProgressMessage    string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	return IsProcessingStatus(i.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// InitProgress resets progress fields for a new stage. ProgressMessage is set
// to message, ProgressPercent drops to 0, and ErrorMessage is cleared.
func (i *Item) InitProgress(stage, message string) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = 0
	i.ErrorMessage = ""
}

// SetProgress updates all three progress fields together.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
func (i *Item) SetProgressComplete(stage, message string) {
	i.SetProgress(stage, message, 100)
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.ProgressStage = "Failed"
}
