package config

const (
	defaultDataDir           = "~/.local/share/pressrun"
	defaultCacheDir          = "~/.cache/pressrun"
	defaultLogDir            = "~/.local/share/pressrun/logs"
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultOpenAIModel       = "gpt-4"
	defaultOpenAITemperature = 0.7
	defaultOpenAITimeout     = 120
	defaultUnsplashBaseURL   = "https://api.unsplash.com"
	defaultUnsplashPerMinute = 30
	defaultUnsplashTimeout   = 30
	defaultYouTubeBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeTimeout    = 30
	defaultWordPressTimeout  = 60
	defaultWordCount         = 3200
	defaultMaxAttempts       = 3
	defaultImagesPerTopic    = 4
	defaultImageMinWidth     = 800
	defaultImageMinHeight    = 600
	defaultImageMaxWidth     = 1200
	defaultImageQuality      = 85
	defaultTopicDelaySeconds = 300
	defaultInputFile         = "topics.csv"
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			Temperature:    defaultOpenAITemperature,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Unsplash: Unsplash{
			BaseURL:           defaultUnsplashBaseURL,
			RequestsPerMinute: defaultUnsplashPerMinute,
			TimeoutSeconds:    defaultUnsplashTimeout,
		},
		YouTube: YouTube{
			BaseURL:        defaultYouTubeBaseURL,
			TimeoutSeconds: defaultYouTubeTimeout,
		},
		WordPress: WordPress{
			RenderMarkdown: true,
			TimeoutSeconds: defaultWordPressTimeout,
		},
		Content: Content{
			DefaultWordCount: defaultWordCount,
			MaxAttempts:      defaultMaxAttempts,
			CacheEnabled:     true,
		},
		Images: Images{
			PerTopic:  defaultImagesPerTopic,
			MinWidth:  defaultImageMinWidth,
			MinHeight: defaultImageMinHeight,
			MaxWidth:  defaultImageMaxWidth,
			Quality:   defaultImageQuality,
		},
		Pipeline: Pipeline{
			TopicDelaySeconds: defaultTopicDelaySeconds,
			InputFile:         defaultInputFile,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Publish:        true,
			Batch:          true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
