package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pressrun/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeysAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("WORDPRESS_APP_PASSWORD", "env-password")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configDir := filepath.Join(tempHome, ".config", "pressrun")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	contents := "[wordpress]\nurl = \"https://blog.example.com/\"\nusername = \"author\"\n"
	configPath := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "pressrun")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "pressrun") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.OpenAI.APIKey != "env-openai" {
		t.Fatalf("expected OpenAI key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.WordPress.AppPassword != "env-password" {
		t.Fatalf("expected app password from env, got %q", cfg.WordPress.AppPassword)
	}
	if cfg.WordPress.URL != "https://blog.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.WordPress.URL)
	}
	if cfg.OpenAI.Model != config.Default().OpenAI.Model {
		t.Fatalf("unexpected model: %q", cfg.OpenAI.Model)
	}
	if cfg.Content.DefaultWordCount != config.Default().Content.DefaultWordCount {
		t.Fatalf("unexpected default word count: %d", cfg.Content.DefaultWordCount)
	}
	if cfg.Unsplash.RequestsPerMinute != config.Default().Unsplash.RequestsPerMinute {
		t.Fatalf("unexpected unsplash rate: %d", cfg.Unsplash.RequestsPerMinute)
	}
	if !cfg.Content.CacheEnabled {
		t.Fatal("expected content cache enabled by default")
	}
	if cfg.Content.StrictCacheValidation {
		t.Fatal("expected strict cache validation disabled by default")
	}
	if !cfg.WordPress.RenderMarkdown {
		t.Fatal("expected markdown rendering enabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "pressrun.toml")

	type payload struct {
		OpenAI struct {
			APIKey string `toml:"api_key"`
			Model  string `toml:"model"`
		} `toml:"openai"`
		WordPress struct {
			URL         string `toml:"url"`
			Username    string `toml:"username"`
			AppPassword string `toml:"app_password"`
		} `toml:"wordpress"`
		Content struct {
			DefaultWordCount int `toml:"default_word_count"`
		} `toml:"content"`
		Images struct {
			Quality int `toml:"quality"`
		} `toml:"images"`
	}
	custom := payload{}
	custom.OpenAI.APIKey = "abc123"
	custom.OpenAI.Model = "gpt-4o-mini"
	custom.WordPress.URL = "https://example.com/blog"
	custom.WordPress.Username = "writer"
	custom.WordPress.AppPassword = "pass"
	custom.Content.DefaultWordCount = 1500
	custom.Images.Quality = 70
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.OpenAI.APIKey != "abc123" {
		t.Fatalf("expected OpenAI key from file, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected model override, got %q", cfg.OpenAI.Model)
	}
	if cfg.Content.DefaultWordCount != 1500 {
		t.Fatalf("expected word count override, got %d", cfg.Content.DefaultWordCount)
	}
	if cfg.Images.Quality != 70 {
		t.Fatalf("expected quality override, got %d", cfg.Images.Quality)
	}
	if cfg.Content.MaxAttempts != config.Default().Content.MaxAttempts {
		t.Fatalf("expected default max attempts, got %d", cfg.Content.MaxAttempts)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your-openai-api-key") {
		t.Fatalf("sample config missing placeholder OpenAI key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}

	if runtime.GOOS != "windows" {
		if !strings.Contains(cfg.Paths.DataDir, "pressrun") {
			t.Fatalf("expected data dir to contain pressrun, got %q", cfg.Paths.DataDir)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.OpenAI.APIKey = "key"
		cfg.WordPress.URL = "https://example.com"
		cfg.WordPress.Username = "writer"
		cfg.WordPress.AppPassword = "pass"
		return cfg
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg = valid()
	cfg.OpenAI.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing OpenAI key")
	}

	cfg = valid()
	cfg.WordPress.AppPassword = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing app password")
	}

	cfg = valid()
	cfg.WordPress.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	cfg = valid()
	cfg.Content.MaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero generation attempts")
	}

	cfg = valid()
	cfg.Images.MinWidth = cfg.Images.MaxWidth + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when min width exceeds max width")
	}

	cfg = valid()
	cfg.Images.Quality = 101
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for quality above 100")
	}

	cfg = valid()
	cfg.OpenAI.Temperature = 3
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range temperature")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(string(filepath.Separator), "data")
	cfg.Paths.CacheDir = filepath.Join(string(filepath.Separator), "cache")

	if got := cfg.QueueDBPath(); got != filepath.Join(cfg.Paths.DataDir, "queue.db") {
		t.Fatalf("unexpected queue db path: %q", got)
	}
	if got := cfg.HistoryPath(); got != filepath.Join(cfg.Paths.DataDir, "history.json") {
		t.Fatalf("unexpected history path: %q", got)
	}
	if got := cfg.ContentCacheDir(); got != filepath.Join(cfg.Paths.CacheDir, "content") {
		t.Fatalf("unexpected content cache dir: %q", got)
	}
	if got := cfg.ImageCacheDir(); got != filepath.Join(cfg.Paths.CacheDir, "images") {
		t.Fatalf("unexpected image cache dir: %q", got)
	}

	cfg.Pipeline.InputFile = "topics.csv"
	if got := cfg.InputFilePath(); got != filepath.Join(cfg.Paths.DataDir, "topics.csv") {
		t.Fatalf("unexpected input path: %q", got)
	}
	absolute := filepath.Join(cfg.Paths.DataDir, "lists", "batch.xlsx")
	cfg.Pipeline.InputFile = absolute
	if got := cfg.InputFilePath(); got != absolute {
		t.Fatalf("expected absolute input path untouched, got %q", got)
	}
}
