package assembler

import (
	"fmt"
	"strings"
	"time"

	"pressrun/internal/topics"
)

const systemPrompt = "You are a professional content writer."

const contentStructure = `Content Structure:
1. Title (SEO-optimized, engaging)
2. Meta Description (155-160 characters)
3. Introduction
   - Hook statement
   - Context setting
   - Article overview
4. Main Content Sections
   - Detailed explanations
   - Examples and case studies
   - Statistical data where relevant
5. Practical Applications
   - Step-by-step guides
   - Best practices
   - Common pitfalls to avoid
6. FAQ Section (5 most relevant questions)
7. Conclusion
   - Key takeaways
   - Call to action

Writing Guidelines:
- Maintain a natural, conversational tone
- Use transition words for flow
- Include real-world examples
- Break down complex concepts
- Use bullet points and lists where appropriate
- Ensure proper heading hierarchy (H2, H3, H4)
`

// buildPrompt renders the article brief sent to the model. The same prompt
// is reused verbatim across retry attempts; only the completion varies.
func buildPrompt(topic topics.Topic, target int, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a unique, original article in English on the topic: %q\n\n", topic.Topic)
	b.WriteString("Key Requirements:\n")
	fmt.Fprintf(&b, "- Primary Keywords: %s\n", topic.PrimaryKeywords)
	fmt.Fprintf(&b, "- Additional Keywords to use naturally %s (20-30 times)\n", topic.AdditionalKeywords)
	fmt.Fprintf(&b, "- Target Audience: %s\n", topic.TargetAudience)
	fmt.Fprintf(&b, "- Tone and Style: %s\n", topic.ToneStyle)
	fmt.Fprintf(&b, "- Current Date: %s\n", today.Format("January 2, 2006"))
	fmt.Fprintf(&b, "- Minimum Length: %d words\n\n", target)
	b.WriteString(contentStructure)
	if topic.Outline != nil {
		b.WriteString("\nCustom Outline Structure:\n")
		for _, section := range topic.Outline.Sections {
			fmt.Fprintf(&b, "\n%s\n", section.Title)
			for _, subsection := range section.Subsections {
				fmt.Fprintf(&b, "- %s\n", subsection)
			}
		}
	}
	return b.String()
}
