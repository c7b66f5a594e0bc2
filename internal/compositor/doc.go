// Package compositor merges generated article text with fetched media.
//
// Media references are expressed as theme shortcode markers rather than
// HTML: gallery markers spread through the body, an optional video embed at
// the midpoint, and a featured-image marker on the first line. The stage
// uploads each image to the publishing target first so the markers carry
// publisher-assigned media IDs.
package compositor
