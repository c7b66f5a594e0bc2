package assembler

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pressrun/internal/services"
	"pressrun/internal/topics"
)

func TestParseContentRoundTrip(t *testing.T) {
	raw := `{"title":"Tomato Care Guide","body":"content","word_count":500,"target_word_count":500,"schema_version":"1.1.0"}`
	content, err := ParseContent(raw)
	if err != nil {
		t.Fatalf("ParseContent failed: %v", err)
	}
	if content.Title != "Tomato Care Guide" || content.WordCount != 500 {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestParseContentRejectsMissingAndCorrupt(t *testing.T) {
	if _, err := ParseContent("   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty input, got %v", err)
	}
	if _, err := ParseContent("{not json"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for corrupt input, got %v", err)
	}
}

func TestNewDraftParsesTitleAndMeta(t *testing.T) {
	raw := "## Container Gardening Basics\n\n**Meta Description:** Start a garden on any balcony.\n\nIntro text here."
	draft := newDraft(raw, topics.Topic{Topic: "container gardening"}, 400, time.Now())
	if draft.Title != "Container Gardening Basics" {
		t.Fatalf("unexpected title: %q", draft.Title)
	}
	if draft.MetaDescription != "Start a garden on any balcony." {
		t.Fatalf("unexpected meta description: %q", draft.MetaDescription)
	}
	if draft.Body != raw {
		t.Fatal("body should keep the raw completion text")
	}
}

func TestNewDraftTitleFallsBackToTopic(t *testing.T) {
	draft := newDraft("###\nbody text", topics.Topic{Topic: "how to grow tomatoes"}, 400, time.Now())
	if draft.Title != "How To Grow Tomatoes" {
		t.Fatalf("unexpected fallback title: %q", draft.Title)
	}
}

func TestMetaDescriptionAbsent(t *testing.T) {
	if got := metaDescription("# Title\n\nJust body text with no summary line."); got != "" {
		t.Fatalf("expected empty meta description, got %q", got)
	}
}

func TestBuildPromptRendersBrief(t *testing.T) {
	topic := testTopic()
	topic.Outline = &topics.Outline{Sections: []topics.Section{
		{Title: "Soil Preparation", Subsections: []string{"Testing pH", "Choosing compost"}},
		{Title: "Harvest"},
	}}
	prompt := buildPrompt(topic, 800, fixedClock())

	for _, want := range []string{
		`Write a unique, original article in English on the topic: "how to grow tomatoes"`,
		"- Primary Keywords: tomato care",
		"- Additional Keywords to use naturally watering, pruning (20-30 times)",
		"- Target Audience: home gardeners",
		"- Tone and Style: friendly",
		"- Current Date: March 14, 2026",
		"- Minimum Length: 800 words",
		"6. FAQ Section (5 most relevant questions)",
		"Custom Outline Structure:",
		"\nSoil Preparation\n- Testing pH\n- Choosing compost\n",
		"\nHarvest\n",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptOmitsOutlineWhenAbsent(t *testing.T) {
	prompt := buildPrompt(testTopic(), 500, fixedClock())
	if strings.Contains(prompt, "Custom Outline Structure:") {
		t.Fatal("prompt should not mention an outline when none is supplied")
	}
}

func TestWithinTolerance(t *testing.T) {
	cases := []struct {
		count  int
		target int
		want   bool
	}{
		{500, 500, true},
		{525, 500, true},
		{475, 500, true},
		{526, 500, false},
		{474, 500, false},
		{3360, 3200, true},
		{3361, 3200, false},
	}
	for _, tc := range cases {
		if got := withinTolerance(tc.count, tc.target); got != tc.want {
			t.Fatalf("withinTolerance(%d, %d) = %v, want %v", tc.count, tc.target, got, tc.want)
		}
	}
}
