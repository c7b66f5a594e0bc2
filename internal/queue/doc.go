// Package queue persists article pipeline items in SQLite and exposes
// helpers for driving their lifecycle.
//
// The Store manages database connections, schema migrations, stats queries,
// stuck-item recovery, and status transitions that mirror the pipeline
// stages. Queue items capture the original article request alongside
// generated content, fetched media, the composed body, and publish results,
// so every stage reads its input and writes its output through the same row.
//
// The database is durable across runs: an interrupted run is resumed by
// rolling processing statuses back to the most recent completed stage and
// picking up where the previous run stopped. Schema changes are shipped as
// numbered files under migrations/ and applied in order on open.
package queue
