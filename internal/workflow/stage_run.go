package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/services"
)

// runStage moves an item through one stage: transition to the processing
// status, Prepare, Execute, then the done status, persisting after each step
// so an interrupted run resumes cleanly.
func (m *Manager) runStage(ctx context.Context, stg pipelineStage, item *queue.Item) error {
	if stg.handler == nil {
		err := fmt.Errorf("stage %s has no handler", stg.name)
		m.failItem(ctx, m.logger, item, err)
		return err
	}

	stageCtx := services.WithRequestID(services.WithStage(services.WithItemID(ctx, item.ID), stg.name), uuid.NewString())
	stageLogger := logging.WithContext(stageCtx, m.logger)
	if aware, ok := stg.handler.(loggerAware); ok {
		aware.SetLogger(m.logger)
	}

	item.Status = stg.processingStatus
	item.ErrorMessage = ""
	if err := m.store.Update(stageCtx, item); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stg.processingStatus)))

	if err := stg.handler.Prepare(stageCtx, item); err != nil {
		m.failItem(stageCtx, stageLogger, item, err)
		return err
	}
	if err := m.store.Update(stageCtx, item); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := stg.handler.Execute(stageCtx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return err
		}
		m.failItem(stageCtx, stageLogger, item, err)
		return err
	}

	item.Status = stg.doneStatus
	if err := m.store.Update(stageCtx, item); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(item.Status)),
		logging.String("progress_message", strings.TrimSpace(item.ProgressMessage)),
		logging.Duration("stage_duration", time.Since(stageStart)))
	return nil
}

// failItem marks the item failed and persists the error message. Persistence
// problems are logged rather than masking the stage error.
func (m *Manager) failItem(ctx context.Context, logger *slog.Logger, item *queue.Item, stageErr error) {
	message := strings.TrimSpace(stageErr.Error())
	item.SetFailed(message)

	logger.Error("stage failed",
		logging.Error(stageErr),
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("resolved_status", string(queue.StatusFailed)))

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run shutting down, could not persist stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}
}
