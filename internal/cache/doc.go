// Package cache provides a local payload cache keyed by content fingerprints.
//
// Generated articles are cached so that re-running a topic with the same
// keywords skips the generation call entirely, and processed images are
// cached so a re-published topic skips download and re-encoding. Entries
// are plain files named after their fingerprint, human-inspectable and
// safe to delete by hand.
//
// # Storage
//
// Each store owns one directory (default ~/.cache/pressrun/content and
// ~/.cache/pressrun/images). Content entries are indented JSON; image
// entries are processed JPEG bytes. Fingerprints come from Key, the hex
// SHA-256 of the identifying fields joined with a unit separator.
//
// CLI commands for inspection and management:
//
//	pressrun cache stats   # Entry counts and sizes per store
//	pressrun cache clear   # Remove all cached entries
package cache
