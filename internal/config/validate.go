package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateWordPress(); err != nil {
		return err
	}
	if err := c.validateContent(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/pressrun/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'pressrun config init')", defaultPath)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return errors.New("openai.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateWordPress() error {
	if strings.TrimSpace(c.WordPress.URL) == "" {
		return errors.New("wordpress.url must be set")
	}
	if strings.TrimSpace(c.WordPress.Username) == "" {
		return errors.New("wordpress.username must be set")
	}
	if strings.TrimSpace(c.WordPress.AppPassword) == "" {
		return errors.New("wordpress.app_password must be set (or set WORDPRESS_APP_PASSWORD)")
	}
	return nil
}

func (c *Config) validateContent() error {
	if c.Content.DefaultWordCount < 100 {
		return errors.New("content.default_word_count must be at least 100")
	}
	if c.Content.MaxAttempts < 1 {
		return errors.New("content.max_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.MinWidth > c.Images.MaxWidth {
		return errors.New("images.min_width must not exceed images.max_width")
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return errors.New("images.quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"openai.timeout_seconds":        c.OpenAI.TimeoutSeconds,
		"unsplash.timeout_seconds":      c.Unsplash.TimeoutSeconds,
		"unsplash.requests_per_minute":  c.Unsplash.RequestsPerMinute,
		"youtube.timeout_seconds":       c.YouTube.TimeoutSeconds,
		"wordpress.timeout_seconds":     c.WordPress.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
