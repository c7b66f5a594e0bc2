package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeUnsplash()
	c.normalizeYouTube()
	c.normalizeWordPress()
	c.normalizeContent()
	c.normalizeImages()
	c.normalizePipeline()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	if c.OpenAI.Temperature <= 0 {
		c.OpenAI.Temperature = defaultOpenAITemperature
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeUnsplash() {
	c.Unsplash.AccessKey = strings.TrimSpace(c.Unsplash.AccessKey)
	if c.Unsplash.AccessKey == "" {
		if value, ok := os.LookupEnv("UNSPLASH_ACCESS_KEY"); ok {
			c.Unsplash.AccessKey = strings.TrimSpace(value)
		}
	}
	c.Unsplash.BaseURL = strings.TrimSpace(c.Unsplash.BaseURL)
	if c.Unsplash.BaseURL == "" {
		c.Unsplash.BaseURL = defaultUnsplashBaseURL
	}
	if c.Unsplash.RequestsPerMinute <= 0 {
		c.Unsplash.RequestsPerMinute = defaultUnsplashPerMinute
	}
	if c.Unsplash.TimeoutSeconds <= 0 {
		c.Unsplash.TimeoutSeconds = defaultUnsplashTimeout
	}
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	if c.YouTube.APIKey == "" {
		if value, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok {
			c.YouTube.APIKey = strings.TrimSpace(value)
		}
	}
	c.YouTube.BaseURL = strings.TrimSpace(c.YouTube.BaseURL)
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = defaultYouTubeTimeout
	}
}

func (c *Config) normalizeWordPress() {
	c.WordPress.URL = strings.TrimRight(strings.TrimSpace(c.WordPress.URL), "/")
	c.WordPress.Username = strings.TrimSpace(c.WordPress.Username)
	c.WordPress.AppPassword = strings.TrimSpace(c.WordPress.AppPassword)
	if c.WordPress.AppPassword == "" {
		if value, ok := os.LookupEnv("WORDPRESS_APP_PASSWORD"); ok {
			c.WordPress.AppPassword = strings.TrimSpace(value)
		}
	}
	if c.WordPress.TimeoutSeconds <= 0 {
		c.WordPress.TimeoutSeconds = defaultWordPressTimeout
	}
}

func (c *Config) normalizeContent() {
	if c.Content.DefaultWordCount <= 0 {
		c.Content.DefaultWordCount = defaultWordCount
	}
	if c.Content.MaxAttempts <= 0 {
		c.Content.MaxAttempts = defaultMaxAttempts
	}
}

func (c *Config) normalizeImages() {
	if c.Images.PerTopic <= 0 {
		c.Images.PerTopic = defaultImagesPerTopic
	}
	if c.Images.MinWidth <= 0 {
		c.Images.MinWidth = defaultImageMinWidth
	}
	if c.Images.MinHeight <= 0 {
		c.Images.MinHeight = defaultImageMinHeight
	}
	if c.Images.MaxWidth <= 0 {
		c.Images.MaxWidth = defaultImageMaxWidth
	}
	if c.Images.Quality <= 0 || c.Images.Quality > 100 {
		c.Images.Quality = defaultImageQuality
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.TopicDelaySeconds < 0 {
		c.Pipeline.TopicDelaySeconds = 0
	}
	c.Pipeline.InputFile = strings.TrimSpace(c.Pipeline.InputFile)
	if c.Pipeline.InputFile == "" {
		c.Pipeline.InputFile = defaultInputFile
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
