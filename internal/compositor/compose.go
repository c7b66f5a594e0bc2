package compositor

import (
	"fmt"
	"unicode/utf8"
)

// Compose arranges media markers into the article body and returns the
// composed text. The first media ID becomes the featured image; the rest are
// spread through the body as gallery markers, each inserted at
// len(work)/count*i where work is the body as grown by earlier insertions.
// A video embed lands at the midpoint after the galleries. The featured
// marker is prepended last so it never shifts the inline offsets. With no
// media the body is returned unchanged.
func Compose(body string, mediaIDs []string, videoURL string) string {
	work := body

	var inline []string
	if len(mediaIDs) > 1 {
		inline = mediaIDs[1:]
	}
	for i, id := range inline {
		offset := len(work) / len(inline) * (i + 1)
		work = insertAt(work, galleryMarker(id), offset)
	}

	if videoURL != "" {
		work = insertAt(work, embedMarker(videoURL), len(work)/2)
	}

	if len(mediaIDs) > 0 {
		work = featuredMarker(mediaIDs[0]) + work
	}
	return work
}

func galleryMarker(id string) string {
	return fmt.Sprintf("\n[gallery ids=\"%s\"]\n", id)
}

func embedMarker(url string) string {
	return fmt.Sprintf("\n[embed]%s[/embed]\n", url)
}

func featuredMarker(id string) string {
	return fmt.Sprintf("[featured-image id=\"%s\"]\n", id)
}

// insertAt splices marker into text at the given byte offset, clamped to the
// text and snapped back to a rune boundary so multi-byte characters are
// never split.
func insertAt(text, marker string, offset int) string {
	if offset < 0 {
		offset = 0
	} else if offset > len(text) {
		offset = len(text)
	}
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return text[:offset] + marker + text[offset:]
}
