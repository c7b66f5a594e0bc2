package workflow

import (
	"context"

	"log/slog"

	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/notifications"
	"pressrun/internal/queue"
	"pressrun/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Assembler  stage.Handler
	MediaFetch stage.Handler
	Compositor stage.Handler
	Publisher  stage.Handler
	Tracker    stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// loggerAware lets stage handlers receive the run-scoped logger.
type loggerAware interface {
	SetLogger(*slog.Logger)
}

// Manager drains the queue sequentially, advancing each topic through every
// stage before picking up the next one.
type Manager struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
}

// NewManager constructs a workflow manager over the given stage handlers. A
// nil notifier falls back to the configured notification service.
func NewManager(cfg *config.Config, store *queue.Store, stages StageSet, notifier notifications.Service, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	ordered := []pipelineStage{
		{name: "assembler", handler: stages.Assembler, startStatus: queue.StatusPending, processingStatus: queue.StatusGenerating, doneStatus: queue.StatusContentGenerated},
		{name: "mediafetch", handler: stages.MediaFetch, startStatus: queue.StatusContentGenerated, processingStatus: queue.StatusFetchingMedia, doneStatus: queue.StatusMediaFetched},
		{name: "compositor", handler: stages.Compositor, startStatus: queue.StatusMediaFetched, processingStatus: queue.StatusComposing, doneStatus: queue.StatusComposed},
		{name: "publishing", handler: stages.Publisher, startStatus: queue.StatusComposed, processingStatus: queue.StatusPublishing, doneStatus: queue.StatusPublished},
		{name: "tracking", handler: stages.Tracker, startStatus: queue.StatusPublished, processingStatus: queue.StatusTracking, doneStatus: queue.StatusCompleted},
	}
	byStart := make(map[queue.Status]pipelineStage, len(ordered))
	for _, stg := range ordered {
		byStart[stg.startStatus] = stg
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		notifier:     notifier,
		stages:       ordered,
		stageByStart: byStart,
	}
}

// HealthChecks runs each configured stage's readiness probe in pipeline order.
func (m *Manager) HealthChecks(ctx context.Context) []stage.Health {
	out := make([]stage.Health, 0, len(m.stages))
	for _, stg := range m.stages {
		if stg.handler == nil {
			out = append(out, stage.Unhealthy(stg.name, "stage handler missing"))
			continue
		}
		out = append(out, stg.handler.HealthCheck(ctx))
	}
	return out
}

func (m *Manager) startStatuses() []queue.Status {
	statuses := make([]queue.Status, 0, len(m.stages))
	for _, stg := range m.stages {
		statuses = append(statuses, stg.startStatus)
	}
	return statuses
}
