package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordCount returns the number of whitespace-separated tokens in text.
// Markdown markers and markup count as part of their adjacent tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FirstLine returns the first non-empty line of text with leading markdown
// heading markers and surrounding whitespace removed.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		trimmed = strings.TrimLeft(trimmed, "#")
		return strings.TrimSpace(trimmed)
	}
	return ""
}

// TitleFromTopic derives a presentable post title from a raw topic string.
// Separator punctuation collapses to single spaces and the result is
// title-cased. Returns "Untitled Post" for empty input.
func TitleFromTopic(topic string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range topic {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Post"
	}
	return cases.Title(language.Und).String(title)
}

// SplitKeywords splits a comma-separated keyword string into trimmed,
// non-empty entries.
func SplitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
