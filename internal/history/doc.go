// Package history keeps the append-only ledger of published posts.
//
// The ledger is a human-readable JSON array (default
// ~/.local/share/pressrun/history.json) rewritten atomically on every
// append. It answers "what did pressrun publish and when" independently of
// the queue database, which only tracks in-flight work.
package history
