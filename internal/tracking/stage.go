package tracking

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"pressrun/internal/assembler"
	"pressrun/internal/history"
	"pressrun/internal/logging"
	"pressrun/internal/publishing"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/stage"
)

const progressStageTracking = "Tracking"

// Stage appends a publish record to the durable history after a post lands.
type Stage struct {
	store   *queue.Store
	tracker *history.Tracker
	logger  *slog.Logger
	now     func() time.Time
}

// NewStage constructs the workflow stage that records published posts.
func NewStage(store *queue.Store, tracker *history.Tracker, logger *slog.Logger) *Stage {
	return &Stage{
		store:   store,
		tracker: tracker,
		logger:  logging.NewComponentLogger(logger, "tracking"),
		now:     time.Now,
	}
}

// SetLogger allows the workflow manager to route stage logs into the item-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "tracking")
}

// Prepare primes queue progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.tracker == nil {
		return services.Wrap(services.ErrConfiguration, "tracking", "prepare", "Tracking stage is not configured", nil)
	}
	if s.store == nil {
		return services.Wrap(services.ErrConfiguration, "tracking", "prepare", "Queue store unavailable", nil)
	}
	item.InitProgress(progressStageTracking, "Recording publish history")
	return s.store.UpdateProgress(ctx, item)
}

// Execute writes the history record for the item's published post. The
// record mirrors what actually went out: the resolved terms, the source
// URLs of the selected images, and scheduled status when the topic carried
// a date.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	if s == nil || s.tracker == nil {
		return services.Wrap(services.ErrConfiguration, "tracking", "execute", "Tracking stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "tracking", "execute", "Queue item is nil", nil)
	}
	if item.PostID == "" {
		return services.Wrap(services.ErrValidation, "tracking", "execute", "Item has no post ID; rerun the publishing stage", nil)
	}

	draft, err := assembler.ParseContent(item.ContentJSON)
	if err != nil {
		return err
	}
	bundle, err := stage.ParseBundle(item.MediaJSON)
	if err != nil {
		return err
	}

	topic := item.Request()
	status := "published"
	if topic.ScheduleAt != nil {
		status = "scheduled"
	}
	images := make([]string, 0, len(bundle.Images))
	for _, ref := range bundle.Images {
		images = append(images, ref.URL)
	}

	record := history.Record{
		PostID:     item.PostID,
		Title:      draft.Title,
		Status:     status,
		Images:     images,
		Categories: publishing.Categories(topic),
		Tags:       publishing.Tags(topic),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.tracker.Record(record); err != nil {
		return services.Wrap(services.ErrTransient, "tracking", "record history", "Could not record publish history", err)
	}

	item.SetProgressComplete(progressStageTracking, fmt.Sprintf("Recorded post %s", item.PostID))
	logging.WithContext(ctx, s.logger).Info("publish recorded",
		logging.String("post_id", item.PostID),
		logging.String("status", status))
	return nil
}

// HealthCheck reports readiness for the tracking stage.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "tracking"
	if s == nil || s.tracker == nil {
		return stage.Unhealthy(name, "history tracker not configured")
	}
	return stage.Healthy(name)
}
