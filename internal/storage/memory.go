package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"hub-go/internal/hub"
)

// MemoryStorage keeps every blob in a map. It is safe for concurrent use
// and is what tests and the "memory" storage type run on.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ hub.Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, hub.ErrKeyNotFound)
	}
	return slices.Clone(v), nil
}

func (m *MemoryStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := hub.ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStorage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryStorage) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// ValidateSetup always succeeds for in-memory storage.
func (m *MemoryStorage) ValidateSetup(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
