// Package publishing submits composed articles to the WordPress site.
//
// Publish resolves category and tag names into term IDs (creating missing
// terms), maps the draft's meta description onto the post excerpt, assigns
// the featured image, and posts with publish status or future status plus a
// date when the topic carries a schedule. Topics without explicit terms fall
// back to the Article category and tags split from the primary keywords.
// When render_markdown is enabled the composed body is converted from
// markdown to HTML before upload; otherwise it is sent as stored.
package publishing
