package testsupport

import (
	"path/filepath"
	"testing"

	"pressrun/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.OpenAI.APIKey = "test"
	cfgVal.Unsplash.AccessKey = "test"
	cfgVal.YouTube.APIKey = "test"
	cfgVal.WordPress.URL = "https://blog.example.com"
	cfgVal.WordPress.Username = "author"
	cfgVal.WordPress.AppPassword = "secret"
	cfgVal.Pipeline.TopicDelaySeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOpenAIBaseURL points the content generation client at a test server.
func WithOpenAIBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OpenAI.BaseURL = url
	}
}

// WithUnsplashBaseURL points the image search client at a test server.
func WithUnsplashBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Unsplash.BaseURL = url
	}
}

// WithYouTubeBaseURL points the video search client at a test server.
func WithYouTubeBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.YouTube.BaseURL = url
	}
}

// WithWordPressURL points the publishing client at a test server.
func WithWordPressURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.WordPress.URL = url
	}
}

// WithNtfyTopic enables push notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
