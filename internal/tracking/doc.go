// Package tracking writes the durable publish record for each completed
// post. One record per publish event, mirroring the resolved categories and
// tags, the selected image URLs, and whether the post went live immediately
// or was scheduled.
package tracking
