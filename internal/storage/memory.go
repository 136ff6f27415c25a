package storage

import (
	"context"
	"sync"
)

// MemoryStore is a KeyValueStore that lives only as long as the process.
type MemoryStore struct {
	docs   map[string][]byte
	closed bool
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Load returns a copy of the blob stored under key.
func (m *MemoryStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(ctx, key); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrClosed
	}
	blob, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

// Save stores a copy of blob under key.
func (m *MemoryStore) Save(ctx context.Context, key string, blob []byte) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}
	if err := validateBlob(blob); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.docs[key] = append([]byte(nil), blob...)
	return nil
}

// Close marks the store closed; later calls fail with ErrClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
