package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pressrun/internal/assembler"
	"pressrun/internal/logging"
	"pressrun/internal/queue"
	"pressrun/internal/services"
)

// Summary reports the outcome of one queue drain.
type Summary struct {
	Processed int
	Failed    int
	Duration  time.Duration
}

// Run drains every eligible queue item. Per-topic failures mark the item
// failed and the batch continues; configuration and missing-input errors
// abort the whole run since every remaining topic would hit them too.
func (m *Manager) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	reset, err := m.store.ResetStuckProcessing(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("reset stuck items: %w", err)
	}
	if reset > 0 {
		m.logger.Info("reset interrupted items", logging.Int64("count", reset))
	}

	remaining, err := m.eligibleCount(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count queue items: %w", err)
	}
	if remaining == 0 {
		m.logger.Info("queue empty; nothing to process")
		return Summary{Duration: time.Since(start)}, nil
	}

	if err := m.notifier.NotifyBatchStarted(ctx, remaining); err != nil {
		m.logger.Warn("batch start notification failed", logging.Error(err))
	}

	var summary Summary
	for {
		item, err := m.store.NextForStatuses(ctx, m.startStatuses()...)
		if err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("fetch next queue item: %w", err)
		}
		if item == nil {
			break
		}

		err = m.processTopic(ctx, item)
		switch {
		case err == nil:
			summary.Processed++
			m.notifyPublished(ctx, item)
		case errors.Is(err, context.Canceled):
			summary.Duration = time.Since(start)
			return summary, err
		case services.IsFatal(err):
			summary.Failed++
			summary.Duration = time.Since(start)
			m.logger.Error("aborting batch on fatal error", logging.Error(err))
			m.notifyBatchCompleted(ctx, summary)
			return summary, err
		default:
			summary.Failed++
			m.notifyFailed(ctx, item, err)
		}

		next, err := m.store.NextForStatuses(ctx, m.startStatuses()...)
		if err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("fetch next queue item: %w", err)
		}
		if next == nil {
			break
		}
		m.sleepBetweenTopics(ctx)
	}

	summary.Duration = time.Since(start)
	m.logger.Info("batch complete",
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration))
	m.notifyBatchCompleted(ctx, summary)
	return summary, nil
}

// processTopic advances one item from its current status to completion.
func (m *Manager) processTopic(ctx context.Context, item *queue.Item) error {
	topicStart := time.Now()
	logger := m.logger.With(
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String(logging.FieldTopic, item.Topic))
	logger.Info("topic started", logging.String("status", string(item.Status)))

	for {
		stg, ok := m.stageByStart[item.Status]
		if !ok {
			break
		}
		if err := m.runStage(ctx, stg, item); err != nil {
			return err
		}
	}

	logger.Info("topic completed",
		logging.String("post_id", item.PostID),
		logging.Duration("topic_duration", time.Since(topicStart)))
	return nil
}

// eligibleCount counts items sitting in any stage start status.
func (m *Manager) eligibleCount(ctx context.Context) (int, error) {
	stats, err := m.store.Stats(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, stg := range m.stages {
		total += stats[stg.startStatus]
	}
	return total, nil
}

// sleepBetweenTopics enforces the configured inter-topic delay. Only called
// when another topic remains, so the last topic never waits.
func (m *Manager) sleepBetweenTopics(ctx context.Context) {
	delay := time.Duration(m.cfg.Pipeline.TopicDelaySeconds) * time.Second
	if delay <= 0 {
		return
	}
	m.logger.Debug("inter-topic delay", logging.Duration("delay", delay))
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func (m *Manager) notifyPublished(ctx context.Context, item *queue.Item) {
	title := item.Topic
	if draft, err := assembler.ParseContent(item.ContentJSON); err == nil && draft.Title != "" {
		title = draft.Title
	}
	if err := m.notifier.NotifyPostPublished(ctx, title, item.PostID, item.ScheduleAt != nil); err != nil {
		m.logger.Warn("publish notification failed", logging.Error(err))
	}
}

func (m *Manager) notifyFailed(ctx context.Context, item *queue.Item, cause error) {
	if err := m.notifier.NotifyTopicFailed(ctx, item.Topic, cause); err != nil {
		m.logger.Warn("failure notification failed", logging.Error(err))
	}
}

func (m *Manager) notifyBatchCompleted(ctx context.Context, summary Summary) {
	if err := m.notifier.NotifyBatchCompleted(ctx, summary.Processed, summary.Failed, summary.Duration); err != nil {
		m.logger.Warn("batch completion notification failed", logging.Error(err))
	}
}
