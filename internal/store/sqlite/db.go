// Package sqlite provides a single-node store backend used for local
// development and tests. It mirrors the wide-column layout of the
// production backend: the same two tables, the same clustering order,
// the same logical upsert rule for the conversation index.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate creates the two tables. Timestamps are stored as Unix
// milliseconds so comparison and ordering match the production
// backend's timestamp precision exactly.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages_by_conversation (
			conversation_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			message_id TEXT NOT NULL,
			sender_id INTEGER NOT NULL,
			receiver_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (conversation_id, created_at DESC, message_id ASC)
		);`,
		// The index is keyed (user_id, conversation_id) for the upsert;
		// the recency index serves the newest-first listing.
		`CREATE TABLE IF NOT EXISTS conversations_by_user (
			user_id INTEGER NOT NULL,
			conversation_id TEXT NOT NULL,
			other_user_id INTEGER NOT NULL,
			last_message_at INTEGER NOT NULL,
			last_message_preview TEXT NOT NULL,
			PRIMARY KEY (user_id, conversation_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_by_user_recency
			ON conversations_by_user(user_id, last_message_at DESC, conversation_id ASC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
