package main

import (
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"pressrun/internal/assembler"
	"pressrun/internal/cache"
	"pressrun/internal/compositor"
	"pressrun/internal/config"
	"pressrun/internal/history"
	"pressrun/internal/mediafetch"
	"pressrun/internal/publishing"
	"pressrun/internal/queue"
	"pressrun/internal/ratelimit"
	"pressrun/internal/services/openai"
	"pressrun/internal/services/unsplash"
	"pressrun/internal/services/wordpress"
	"pressrun/internal/services/youtube"
	"pressrun/internal/tracking"
	"pressrun/internal/workflow"
)

// buildManager wires every pipeline stage and its collaborators from the
// configuration. The image and video clients stay nil when their keys are
// unset; those stages then degrade to no-media articles.
func buildManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*workflow.Manager, error) {
	generator, err := openai.New(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		Temperature:    cfg.OpenAI.Temperature,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("content generation client: %w", err)
	}

	var contentCache *cache.Store
	if cfg.Content.CacheEnabled {
		contentCache = cache.NewStore(cfg.ContentCacheDir(), "json", logger)
	}
	articles := assembler.New(generator, contentCache, cfg.Content, logger)

	var images *unsplash.Client
	if cfg.Unsplash.AccessKey != "" {
		images, err = unsplash.New(unsplash.Config{
			AccessKey:  cfg.Unsplash.AccessKey,
			BaseURL:    cfg.Unsplash.BaseURL,
			HTTPClient: httpClient(cfg.Unsplash.TimeoutSeconds),
		})
		if err != nil {
			return nil, fmt.Errorf("image search client: %w", err)
		}
	}
	var videos *youtube.Client
	if cfg.YouTube.APIKey != "" {
		videos, err = youtube.New(youtube.Config{
			APIKey:     cfg.YouTube.APIKey,
			BaseURL:    cfg.YouTube.BaseURL,
			HTTPClient: httpClient(cfg.YouTube.TimeoutSeconds),
		})
		if err != nil {
			return nil, fmt.Errorf("video search client: %w", err)
		}
	}
	limiter := ratelimit.New(cfg.Unsplash.RequestsPerMinute, time.Minute)
	imageCache := cache.NewStore(cfg.ImageCacheDir(), "jpg", logger)
	fetcher := mediafetch.New(images, videos, limiter, imageCache, cfg.Images, logger)

	site, err := wordpressClient(cfg)
	if err != nil {
		return nil, err
	}
	publisher := publishing.New(site, cfg.WordPress, logger)

	tracker, err := history.NewTracker(cfg.HistoryPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("open history ledger: %w", err)
	}

	stages := workflow.StageSet{
		Assembler:  assembler.NewStage(store, articles, logger),
		MediaFetch: mediafetch.NewStage(store, fetcher, logger),
		Compositor: compositor.NewStage(store, fetcher, site, logger),
		Publisher:  publishing.NewStage(store, publisher, logger),
		Tracker:    tracking.NewStage(store, tracker, logger),
	}
	return workflow.NewManager(cfg, store, stages, nil, logger), nil
}

func wordpressClient(cfg *config.Config) (*wordpress.Client, error) {
	client, err := wordpress.New(wordpress.Config{
		SiteURL:     cfg.WordPress.URL,
		Username:    cfg.WordPress.Username,
		AppPassword: cfg.WordPress.AppPassword,
		HTTPClient:  httpClient(cfg.WordPress.TimeoutSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("publishing client: %w", err)
	}
	return client, nil
}

func httpClient(timeoutSeconds int) *http.Client {
	if timeoutSeconds <= 0 {
		return nil
	}
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}
