// Package wordpress wraps the WordPress REST v2 API for media uploads, post
// creation and updates, and taxonomy term resolution.
//
// Authentication uses application passwords over basic auth. Because the REST
// API references categories and tags by numeric term ID, the client resolves
// configured names to IDs before a post is submitted, creating missing terms
// on the fly.
package wordpress
