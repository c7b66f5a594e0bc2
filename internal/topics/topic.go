package topics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pressrun/internal/services"
)

// Section is one outline heading with optional subsection headings.
type Section struct {
	Title       string   `json:"title"`
	Subsections []string `json:"subsections,omitempty"`
}

// Outline is an author-supplied article structure. When present it replaces
// the default section structure in the generation prompt.
type Outline struct {
	Sections []Section `json:"sections"`
}

// Topic is one article request from the input file.
type Topic struct {
	Topic              string
	PrimaryKeywords    string
	AdditionalKeywords string
	TargetAudience     string
	ToneStyle          string
	WordCount          int
	Outline            *Outline
	Categories         []string
	Tags               []string
	VideoRequired      bool
	ScheduleAt         *time.Time
}

// Validate checks the fields every pipeline stage depends on. Optional
// fields are validated at parse time, so this only guards the required set.
func (t Topic) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"topic", t.Topic},
		{"primary_keywords", t.PrimaryKeywords},
		{"additional_keywords", t.AdditionalKeywords},
		{"target_audience", t.TargetAudience},
		{"tone_style", t.ToneStyle},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return services.Wrap(services.ErrValidation, "topics", "validate", fmt.Sprintf("%s must not be empty", field.name), nil)
		}
	}
	if t.WordCount < 0 {
		return services.Wrap(services.ErrValidation, "topics", "validate", "word_count must be positive", nil)
	}
	return nil
}

// ParseOutline decodes the JSON outline cell. Empty input yields nil.
func ParseOutline(raw string) (*Outline, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var outline Outline
	if err := json.Unmarshal([]byte(raw), &outline); err != nil {
		return nil, fmt.Errorf("parse outline: %w", err)
	}
	if len(outline.Sections) == 0 {
		return nil, fmt.Errorf("outline has no sections")
	}
	for i, section := range outline.Sections {
		if strings.TrimSpace(section.Title) == "" {
			return nil, fmt.Errorf("outline section %d has no title", i+1)
		}
	}
	return &outline, nil
}

// OutlineJSON returns the serialized outline or empty when none is set.
func (t Topic) OutlineJSON() string {
	if t.Outline == nil {
		return ""
	}
	data, err := json.Marshal(t.Outline)
	if err != nil {
		return ""
	}
	return string(data)
}

func parseBoolCell(raw string) (bool, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return false, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse bool %q: %w", raw, err)
	}
	return value, nil
}

func parseScheduleCell(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parse schedule_at %q: expected RFC3339: %w", raw, err)
	}
	return &parsed, nil
}

// SplitList splits a comma separated cell into trimmed values.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
