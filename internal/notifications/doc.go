// Package notifications delivers pipeline events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-group toggles suppress publish, batch, or error events
// without disabling the rest.
//
// Extend this package if you need alternative transports; all workflow code
// depends only on the simple Service interface.
package notifications
