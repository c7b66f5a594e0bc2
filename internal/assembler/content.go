package assembler

import (
	"encoding/json"
	"strings"
	"time"

	"pressrun/internal/cache"
	"pressrun/internal/services"
	"pressrun/internal/textutil"
	"pressrun/internal/topics"
)

// SchemaVersion tags serialized drafts so payloads written by an older
// incompatible layout can be recognized downstream.
const SchemaVersion = "1.1.0"

// GeneratedContent is one validated article draft.
type GeneratedContent struct {
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Body            string    `json:"body"`
	WordCount       int       `json:"word_count"`
	TargetWordCount int       `json:"target_word_count"`
	GeneratedAt     time.Time `json:"generated_at"`
	SchemaVersion   string    `json:"schema_version"`
}

// Fingerprint returns the content cache fingerprint for an article request.
// The word count target and outline are excluded on purpose: a draft cached
// under one length target is reused verbatim for later requests of a
// different length.
func Fingerprint(topic topics.Topic) string {
	return cache.Key(topic.Topic, topic.PrimaryKeywords, topic.AdditionalKeywords)
}

// ParseContent decodes the serialized draft stored on a queue item.
func ParseContent(raw string) (*GeneratedContent, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, services.Wrap(services.ErrValidation, "assembler", "parse content", "Generated content missing; rerun the generation stage", nil)
	}
	var content GeneratedContent
	if err := json.Unmarshal([]byte(trimmed), &content); err != nil {
		return nil, services.Wrap(services.ErrValidation, "assembler", "parse content", "Generated content is corrupt; rerun the generation stage", err)
	}
	return &content, nil
}

// newDraft structures one raw completion into a draft. The full raw text is
// kept as the body; the title line is not stripped out of it.
func newDraft(raw string, topic topics.Topic, target int, at time.Time) *GeneratedContent {
	body := strings.TrimSpace(raw)
	title := textutil.FirstLine(body)
	if title == "" {
		title = textutil.TitleFromTopic(topic.Topic)
	}
	return &GeneratedContent{
		Title:           title,
		MetaDescription: metaDescription(body),
		Body:            body,
		WordCount:       textutil.WordCount(body),
		TargetWordCount: target,
		GeneratedAt:     at,
		SchemaVersion:   SchemaVersion,
	}
}

// metaDescription pulls the meta description line the prompt asks the model
// to emit. Absence is fine; the publisher then posts without an excerpt.
func metaDescription(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.Trim(strings.TrimSpace(line), "#*_ ")
		if len(trimmed) < len("meta description") {
			continue
		}
		if !strings.EqualFold(trimmed[:len("meta description")], "meta description") {
			continue
		}
		_, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.Trim(value, "*_\""))
		if value != "" {
			return value
		}
	}
	return ""
}
