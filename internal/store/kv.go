package store

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
)

// Document keys. Each aggregate is persisted as a single JSON document.
const (
	KeyInventory = "gripcheck_inventory_v1"
	KeyCrew      = "gripcheck_crew_v1"
	KeyCompany   = "gripcheck_company_v1"
)

// KV is the key-value backend documents are written to.
// Get returns nil, nil when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Load reads and decodes the document stored under key. A missing,
// unreadable or malformed document yields def() instead; the failure is
// logged and never returned. A stored JSON null counts as malformed.
func Load[T any](ctx context.Context, kv KV, key string, def func() T) T {
	data, err := kv.Get(ctx, key)
	if err != nil {
		slog.Error("failed to read document", "key", key, "error", err)
		return def()
	}
	if data == nil {
		return def()
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		slog.Error("stored document is null, using defaults", "key", key)
		return def()
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Error("stored document is malformed, using defaults", "key", key, "error", err)
		return def()
	}
	return v
}

// Save encodes v and overwrites the document under key. Failures are
// logged and reported through the returned error for callers that care.
func Save[T any](ctx context.Context, kv KV, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode document", "key", key, "error", err)
		return err
	}
	if err := kv.Put(ctx, key, data); err != nil {
		slog.Error("failed to write document", "key", key, "error", err)
		return err
	}
	return nil
}
