// Package database provides the embedded audit store for produced
// classification results.
package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	defaultMaxOpenConns    = 1 // SQLite writes serialize anyway
	defaultConnMaxLifetime = 5 * time.Minute
)

const schema = `
CREATE TABLE IF NOT EXISTS classification_history (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id    TEXT    NOT NULL,
	stage              INTEGER NOT NULL,
	labels             TEXT    NOT NULL,
	origin             TEXT    NOT NULL,
	classifier_version TEXT    NOT NULL,
	processing_time_ms INTEGER NOT NULL,
	classified_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_conversation
	ON classification_history (conversation_id);
`

// Open connects to the SQLite database at path (":memory:" for tests) and
// ensures the schema exists.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}
