package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteKV stores documents in the documents table.
type SQLiteKV struct {
	DB *sql.DB
}

// Get returns the document stored under key, or nil if there is none.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying document %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put inserts or overwrites the document stored under key.
func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("storing document %s: %w", key, err)
	}
	return nil
}
