package assembler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"pressrun/internal/cache"
	"pressrun/internal/config"
	"pressrun/internal/logging"
	"pressrun/internal/services"
	"pressrun/internal/services/openai"
	"pressrun/internal/topics"
)

const (
	// tokensPerWord converts the word count target into a completion
	// token budget.
	tokensPerWord = 1.3
	// wordCountTolerance is the accepted relative deviation from the
	// target word count.
	wordCountTolerance = 0.05
)

// CompletionClient issues a single chat completion call.
type CompletionClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

// Assembler turns article requests into validated drafts. Drafts are cached
// by fingerprint so a repeated request with the same topic and keywords
// skips generation entirely.
type Assembler struct {
	client CompletionClient
	cache  *cache.Store
	cfg    config.Content
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an Assembler backed by the given completion client and
// content cache.
func New(client CompletionClient, store *cache.Store, cfg config.Content, logger *slog.Logger) *Assembler {
	return &Assembler{
		client: client,
		cache:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "assembler"),
		now:    time.Now,
	}
}

// Assemble returns a draft for the request, from cache when possible. On a
// miss it generates up to [content] max_attempts drafts with the same
// prompt and returns the first whose word count lands inside the tolerance
// window. Transport failures consume attempts like out-of-window drafts.
func (a *Assembler) Assemble(ctx context.Context, topic topics.Topic) (*GeneratedContent, error) {
	if a == nil || a.client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembler", "assemble", "Completion client is not configured", nil)
	}

	target := topic.WordCount
	if target <= 0 {
		target = a.cfg.DefaultWordCount
	}
	if target <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "assembler", "assemble", "No word count target configured", nil)
	}

	fingerprint := Fingerprint(topic)
	logger := logging.WithContext(ctx, a.logger)

	if cached, ok := a.fromCache(fingerprint, target, logger); ok {
		return cached, nil
	}

	prompt := buildPrompt(topic, target, a.now())
	maxTokens := int64(math.Round(float64(target) * tokensPerWord))
	attempts := a.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		logger.Info("generating article draft",
			logging.String("topic", topic.Topic),
			logging.Int("attempt", attempt),
			logging.Int("target_words", target))

		raw, err := a.client.Complete(ctx, openai.CompletionRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   prompt,
			MaxTokens:    maxTokens,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, services.Wrap(services.ErrTransient, "assembler", "generate content", "Generation interrupted", ctx.Err())
			}
			lastErr = err
			logger.Warn("completion call failed",
				logging.Int("attempt", attempt),
				logging.Error(err))
			continue
		}

		draft := newDraft(raw, topic, target, a.now().UTC())
		if !withinTolerance(draft.WordCount, target) {
			lastErr = fmt.Errorf("draft has %d words, target %d", draft.WordCount, target)
			logger.Warn("draft outside word count window",
				logging.Int("attempt", attempt),
				logging.Int("words", draft.WordCount),
				logging.Int("target_words", target))
			continue
		}

		a.toCache(fingerprint, draft, logger)
		return draft, nil
	}

	return nil, services.Wrap(services.ErrGeneration, "assembler", "generate content",
		fmt.Sprintf("no draft within 5%% of %d words after %d attempts", target, attempts), lastErr)
}

// fromCache loads a cached draft. With strict validation enabled, a cached
// draft outside the current tolerance window counts as a miss so the caller
// regenerates at the requested length.
func (a *Assembler) fromCache(fingerprint string, target int, logger *slog.Logger) (*GeneratedContent, bool) {
	if !a.cfg.CacheEnabled || a.cache == nil {
		return nil, false
	}
	var cached GeneratedContent
	if !a.cache.ReadJSON(fingerprint, &cached) {
		return nil, false
	}
	if a.cfg.StrictCacheValidation && !withinTolerance(cached.WordCount, target) {
		logger.Info("cached draft misses current word target; regenerating",
			logging.Int("cached_words", cached.WordCount),
			logging.Int("target_words", target))
		return nil, false
	}
	logger.Info("using cached draft",
		logging.String("fingerprint", fingerprint),
		logging.Int("words", cached.WordCount))
	return &cached, true
}

// toCache stores a draft. Write failures are logged and swallowed; the
// cache is an optimization, not a correctness dependency.
func (a *Assembler) toCache(fingerprint string, draft *GeneratedContent, logger *slog.Logger) {
	if !a.cfg.CacheEnabled || a.cache == nil {
		return
	}
	if err := a.cache.WriteJSON(fingerprint, draft); err != nil {
		logger.Warn("caching draft failed; next run regenerates",
			logging.String("fingerprint", fingerprint),
			logging.Error(err))
	}
}

// withinTolerance reports whether count lands inside the accepted window
// around target.
func withinTolerance(count, target int) bool {
	diff := count - target
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) <= wordCountTolerance*float64(target)
}
