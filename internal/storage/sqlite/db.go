// Package sqlite persists messages, the tracked-channel roster, and the
// per-channel and per-user cursors in a single local SQLite file.
package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	message_id INTEGER NOT NULL,
	channel TEXT NOT NULL,
	date TEXT NOT NULL,
	text TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_message_unique ON messages(channel, message_id);

CREATE TABLE IF NOT EXISTS sync_state (
	channel TEXT PRIMARY KEY,
	last_message_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS channels (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS user_channel_state (
	user_id INTEGER NOT NULL,
	channel TEXT NOT NULL,
	last_message_id INTEGER NOT NULL,
	PRIMARY KEY (user_id, channel)
);
`

// Open opens the database file at path with WAL journaling and a busy
// timeout, creating the file if it does not exist.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return db, nil
}

// Migrate idempotently ensures all tables and the (channel, message_id)
// uniqueness constraint exist. Safe to call on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// OpenMemory opens a migrated in-memory database for tests. The pool is
// capped at one connection so every statement sees the same memory DB.
func OpenMemory(tb testing.TB) *sqlx.DB {
	tb.Helper()

	db, err := Open(":memory:")
	if err != nil {
		tb.Fatalf("open memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(context.Background(), db); err != nil {
		tb.Fatalf("migrate memory database: %v", err)
	}

	tb.Cleanup(func() { db.Close() })
	return db
}
