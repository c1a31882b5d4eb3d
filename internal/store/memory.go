package store

import (
	"context"
	"sync"
)

// MemoryKV keeps documents in process memory.
type MemoryKV struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{docs: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.docs[key] = v
	return nil
}
