// Package mediafetch selects and materializes media for queued topics.
//
// Selection searches the image API with the topic's primary keywords,
// requesting twice as many landscape candidates as needed, filtering by the
// configured minimum dimensions, and keeping fetch order; index 0 becomes
// the featured image downstream. When a topic requires a video, one search
// against the video API picks the best match for an embed. Media failures
// never fail a topic: the selection degrades to empty and the pipeline
// publishes without media.
//
// Materialization is separate and lazy. The selection stage stores only
// references; image bytes are downloaded, downscaled, and JPEG re-encoded
// when a later stage needs them for upload, with processed bytes cached so
// a re-published topic skips the download.
package mediafetch
