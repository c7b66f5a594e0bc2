// Package assembler generates article drafts from queued topic requests.
//
// A draft is produced by one or more chat completion calls against a fixed
// prompt built from the topic brief (keywords, audience, tone, optional
// custom outline). Each completion is parsed into a GeneratedContent and
// accepted only when its word count lands within 5% of the requested
// target; out-of-window drafts and transport failures both consume retry
// attempts until the configured budget is exhausted.
//
// Accepted drafts are cached under a fingerprint of the topic and keyword
// fields, so re-running a topic skips generation. The word count target is
// not part of the fingerprint: a cached draft is served even when a later
// run requests a different length, unless strict cache validation is
// enabled in the configuration.
package assembler
