package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// OpenAI contains connection settings for the content generation service.
type OpenAI struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Unsplash contains configuration for the image source API.
type Unsplash struct {
	AccessKey         string `toml:"access_key"`
	BaseURL           string `toml:"base_url"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// YouTube contains configuration for the video search API.
type YouTube struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WordPress contains configuration for the publishing target.
type WordPress struct {
	URL            string `toml:"url"`
	Username       string `toml:"username"`
	AppPassword    string `toml:"app_password"`
	RenderMarkdown bool   `toml:"render_markdown"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Content contains article generation settings.
type Content struct {
	DefaultWordCount      int  `toml:"default_word_count"`
	MaxAttempts           int  `toml:"max_attempts"`
	CacheEnabled          bool `toml:"cache_enabled"`
	StrictCacheValidation bool `toml:"strict_cache_validation"`
}

// Images contains image sourcing and processing settings.
type Images struct {
	PerTopic  int `toml:"per_topic"`
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
	MaxWidth  int `toml:"max_width"`
	Quality   int `toml:"quality"`
}

// Pipeline contains batch run timing settings.
type Pipeline struct {
	TopicDelaySeconds int    `toml:"topic_delay_seconds"`
	InputFile         string `toml:"input_file"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Publish        bool   `toml:"publish"`
	Batch          bool   `toml:"batch"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the pipeline.
//
// Configuration sections by subsystem:
//   - Paths: data, cache, and log directories
//   - OpenAI: content generation service connection
//   - Unsplash: image search and download
//   - YouTube: video search for embeds
//   - WordPress: publishing target and credentials
//   - Content: word count targets, retry budget, cache behavior
//   - Images: per-topic image count, dimension filters, processing
//   - Pipeline: inter-topic delay and default input file
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	OpenAI        OpenAI        `toml:"openai"`
	Unsplash      Unsplash      `toml:"unsplash"`
	YouTube       YouTube       `toml:"youtube"`
	WordPress     WordPress     `toml:"wordpress"`
	Content       Content       `toml:"content"`
	Images        Images        `toml:"images"`
	Pipeline      Pipeline      `toml:"pipeline"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pressrun/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/pressrun/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pressrun.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, cache, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// QueueDBPath returns the location of the pipeline state database.
func (c *Config) QueueDBPath() string {
	return filepath.Join(c.Paths.DataDir, "queue.db")
}

// HistoryPath returns the location of the publish history log.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.json")
}

// LockPath returns the location of the single-instance run lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "pressrun.lock")
}

// ContentCacheDir returns the directory holding cached generated articles.
func (c *Config) ContentCacheDir() string {
	return filepath.Join(c.Paths.CacheDir, "content")
}

// ImageCacheDir returns the directory holding cached processed images.
func (c *Config) ImageCacheDir() string {
	return filepath.Join(c.Paths.CacheDir, "images")
}

// InputFilePath resolves the topics input file, defaulting into the data directory.
func (c *Config) InputFilePath() string {
	input := strings.TrimSpace(c.Pipeline.InputFile)
	if input == "" {
		input = "topics.csv"
	}
	if filepath.IsAbs(input) {
		return input
	}
	return filepath.Join(c.Paths.DataDir, input)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
