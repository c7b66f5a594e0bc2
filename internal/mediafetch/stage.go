package mediafetch

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"pressrun/internal/logging"
	"pressrun/internal/media"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/stage"
)

const progressStageFetching = "Fetching media"

// Stage integrates media selection with the workflow manager.
type Stage struct {
	store   *queue.Store
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewStage constructs the workflow stage that selects media for queue items.
func NewStage(store *queue.Store, fetcher *Fetcher, logger *slog.Logger) *Stage {
	return &Stage{store: store, fetcher: fetcher, logger: logging.NewComponentLogger(logger, "mediafetch-stage")}
}

// SetLogger allows the workflow manager to route stage logs into the item-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "mediafetch-stage")
	if s.fetcher != nil {
		s.fetcher.logger = logging.NewComponentLogger(logger, "mediafetch")
	}
}

// Prepare primes queue progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.fetcher == nil {
		return services.Wrap(services.ErrConfiguration, "mediafetch", "prepare", "Media stage is not configured", nil)
	}
	if s.store == nil {
		return services.Wrap(services.ErrConfiguration, "mediafetch", "prepare", "Queue store unavailable", nil)
	}
	item.InitProgress(progressStageFetching, "Searching for media")
	return s.store.UpdateProgress(ctx, item)
}

// Execute selects media for the item and stores the selection on the row.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	if s == nil || s.fetcher == nil {
		return services.Wrap(services.ErrConfiguration, "mediafetch", "execute", "Media stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "mediafetch", "execute", "Queue item is nil", nil)
	}

	bundle, err := s.fetcher.FetchBundle(ctx, item.Request())
	if err != nil {
		return services.Wrap(services.ErrTransient, "mediafetch", "fetch media", "Media fetch interrupted", err)
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return services.Wrap(services.ErrValidation, "mediafetch", "encode media", "Could not serialize media selection", err)
	}
	item.MediaJSON = string(payload)
	item.SetProgressComplete(progressStageFetching, bundleMessage(bundle))

	logging.WithContext(ctx, s.logger).Info("media selected",
		logging.Int("images", len(bundle.Images)),
		logging.Bool("video", bundle.Video != nil))
	return nil
}

func bundleMessage(bundle media.Bundle) string {
	if bundle.Empty() {
		return "No media matched"
	}
	msg := fmt.Sprintf("Selected %d image(s)", len(bundle.Images))
	if bundle.Video != nil {
		msg += " and a video"
	}
	return msg
}

// HealthCheck reports readiness for the media stage.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "mediafetch"
	if s == nil || s.fetcher == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	return stage.Healthy(name)
}
