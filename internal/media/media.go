package media

import (
	"strings"

	"pressrun/internal/cache"
)

// ImageRef describes one sourced image. Content holds the processed JPEG
// payload when materialized; it is kept out of serialized form because the
// bytes live in the image cache keyed by CacheKey.
type ImageRef struct {
	URL              string `json:"url"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Description      string `json:"description,omitempty"`
	Attribution      string `json:"attribution,omitempty"`
	DownloadLocation string `json:"download_location,omitempty"`
	Content          []byte `json:"-"`
}

// CacheKey returns the image cache fingerprint for this ref.
func (r ImageRef) CacheKey() string {
	return cache.Key("image", r.URL)
}

// Video describes an embeddable video match.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// Bundle is the media set fetched for one topic. Images are in fetch order;
// index 0 becomes the featured image and the rest are placed inline.
type Bundle struct {
	Images []ImageRef `json:"images"`
	Video  *Video     `json:"video,omitempty"`
}

// Empty reports whether the bundle carries no media at all.
func (b Bundle) Empty() bool {
	return len(b.Images) == 0 && b.Video == nil
}

// VideoURL returns the embed URL or empty when no video was matched.
func (b Bundle) VideoURL() string {
	if b.Video == nil {
		return ""
	}
	return strings.TrimSpace(b.Video.URL)
}
