// Package main hosts the Pressrun CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into batch
// pipeline runs, queue maintenance operations, history inspection, cache
// upkeep, topic-file validation, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// That separation keeps the CLI declarative while the heavy lifting lives in
// reusable pipeline components.
package main
