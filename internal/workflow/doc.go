// Package workflow advances queue items through the configured processing
// stages.
//
// The Manager drains the queue sequentially: each topic runs assembler,
// media fetch, compositor, publishing, and tracking back to back before the
// next topic starts, with an optional delay between topics to respect
// upstream rate limits. Stage failures mark only that topic failed and the
// batch continues; configuration and missing-input errors abort the run.
// Interrupted runs are rolled back to the last durable status on startup so
// a topic resumes at the stage it was in, not from scratch.
//
// Add new lifecycle stages by extending StageSet, updating the queue status
// enums, and teaching the manager how to transition items; this package is
// the authoritative home for that coordination logic.
package workflow
