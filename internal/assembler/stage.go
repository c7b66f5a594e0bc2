package assembler

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/services"
	"pressrun/internal/stage"
)

const progressStageGenerating = "Generating"

// Stage integrates draft generation with the workflow manager.
type Stage struct {
	store     *queue.Store
	assembler *Assembler
	logger    *slog.Logger
}

// NewStage constructs the workflow stage that generates article drafts.
func NewStage(store *queue.Store, assembler *Assembler, logger *slog.Logger) *Stage {
	return &Stage{store: store, assembler: assembler, logger: logging.NewComponentLogger(logger, "assembler-stage")}
}

// SetLogger allows the workflow manager to route stage logs into the item-scoped log.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if s == nil {
		return
	}
	s.logger = logging.NewComponentLogger(logger, "assembler-stage")
	if s.assembler != nil {
		s.assembler.logger = logging.NewComponentLogger(logger, "assembler")
	}
}

// Prepare primes queue progress fields before executing the stage.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.assembler == nil {
		return services.Wrap(services.ErrConfiguration, "assembler", "prepare", "Generation stage is not configured", nil)
	}
	if s.store == nil {
		return services.Wrap(services.ErrConfiguration, "assembler", "prepare", "Queue store unavailable", nil)
	}
	item.InitProgress(progressStageGenerating, "Preparing article draft")
	return s.store.UpdateProgress(ctx, item)
}

// Execute generates a draft for the item and stores it on the queue row.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	if s == nil || s.assembler == nil {
		return services.Wrap(services.ErrConfiguration, "assembler", "execute", "Generation stage is not configured", nil)
	}
	if item == nil {
		return services.Wrap(services.ErrValidation, "assembler", "execute", "Queue item is nil", nil)
	}

	request := item.Request()
	if err := request.Validate(); err != nil {
		return err
	}
	item.Fingerprint = Fingerprint(request)

	draft, err := s.assembler.Assemble(ctx, request)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return services.Wrap(services.ErrValidation, "assembler", "encode content", "Could not serialize generated draft", err)
	}
	item.ContentJSON = string(payload)
	item.SetProgressComplete(progressStageGenerating, fmt.Sprintf("Draft ready (%d words)", draft.WordCount))

	logging.WithContext(ctx, s.logger).Info("article draft ready",
		logging.String("title", draft.Title),
		logging.Int("words", draft.WordCount),
		logging.Int("target_words", draft.TargetWordCount))
	return nil
}

// HealthCheck reports readiness for the generation stage.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "assembler"
	if s == nil || s.assembler == nil || s.assembler.client == nil {
		return stage.Unhealthy(name, "completion client not configured")
	}
	return stage.Healthy(name)
}
