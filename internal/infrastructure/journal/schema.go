// Package journal persists a local audit trail of adapter requests in
// SQLite: which operation ran against which target, how it ended, and how
// long it took. Entries never hold credentials or response bodies.
package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	driver      = "sqlite3"
	defFilename = "journal.db"
)

const schema = `
CREATE TABLE IF NOT EXISTS request_journal (
	id          TEXT PRIMARY KEY,
	operation   TEXT NOT NULL,
	target      TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_request_journal_created_at ON request_journal (created_at);
`

// InitSchema creates the journal table. It is idempotent.
func InitSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init journal schema: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the journal database in dir and
// initialises the schema.
func Open(dir string) (*sqlx.DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sqlx.Open(driver, filepath.Join(dir, defFilename))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
