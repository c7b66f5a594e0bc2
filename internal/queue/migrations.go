package queue

import (
	"context"
	"embed"
	"fmt"
	"sort"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// applyMigrations runs any pending schema migrations in lexical order.
// Applied migrations are recorded in schema_migrations so reruns are no-ops.
func (s *Store) applyMigrations(ctx context.Context) error {
	ctx = ensureContext(ctx)

	if err := s.execWithoutResultRetry(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, checkErr := s.migrationApplied(ctx, name)
		if checkErr != nil {
			return checkErr
		}
		if applied {
			continue
		}

		script, readErr := migrationFiles.ReadFile("migrations/" + name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}

		if execErr := s.execWithoutResultRetry(ctx, string(script)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}

		if recordErr := s.execWithoutResultRetry(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			name, nowTimestamp()); recordErr != nil {
			return fmt.Errorf("record migration %s: %w", name, recordErr)
		}
	}

	return nil
}

func (s *Store) migrationApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM schema_migrations WHERE version = ?", version).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return count > 0, nil
}
