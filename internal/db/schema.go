package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Each aggregate is stored as one JSON
// document keyed by name and overwritten as a whole.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return Migrate(db)
}
