package publishing

import (
	"context"
	"fmt"
	"strconv"

	"log/slog"

	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/stage"
)

const progressStagePublishing = "Publishing"

// Stage submits composed items through the Publisher.
type Stage struct {
	store     *queue.Store
	publisher *Publisher
	logger    *slog.Logger
}

// NewStage constructs the workflow stage that publishes composed articles.
func NewStage(store *queue.Store, publisher *Publisher, logger *slog.Logger) *Stage {
	return &Stage{store: store, publisher: publisher, logger: logging.NewComponentLogger(logger, "publishing-stage")}
}

// SetLogger allows the workflow manager to route stage logs into the item-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "publishing-stage")
	if s.publisher != nil {
		s.publisher.logger = logging.NewComponentLogger(logger, "publishing")
	}
}

// Prepare primes queue progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.publisher == nil {
		return services.Wrap(services.ErrConfiguration, "publishing", "prepare", "Publishing stage is not configured", nil)
	}
	if s.store == nil {
		return services.Wrap(services.ErrConfiguration, "publishing", "prepare", "Queue store unavailable", nil)
	}
	item.InitProgress(progressStagePublishing, "Submitting post")
	return s.store.UpdateProgress(ctx, item)
}

// Execute publishes the item and stores the assigned post ID.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	if s == nil || s.publisher == nil {
		return services.Wrap(services.ErrConfiguration, "publishing", "execute", "Publishing stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "publishing", "execute", "Queue item is nil", nil)
	}

	post, err := s.publisher.Publish(ctx, item)
	if err != nil {
		return err
	}
	item.PostID = strconv.FormatInt(post.ID, 10)

	verb := "Published"
	if item.Request().ScheduleAt != nil {
		verb = "Scheduled"
	}
	item.SetProgressComplete(progressStagePublishing, fmt.Sprintf("%s post %d", verb, post.ID))

	logging.WithContext(ctx, s.logger).Info("post submitted",
		logging.Int64("post_id", post.ID),
		logging.String("link", post.Link))
	return nil
}

// HealthCheck reports readiness for the publishing stage.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "publishing"
	if s == nil || s.publisher == nil || s.publisher.client == nil {
		return stage.Unhealthy(name, "publisher not configured")
	}
	return stage.Healthy(name)
}
