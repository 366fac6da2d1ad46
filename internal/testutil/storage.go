package testutil

import (
	"context"
	"errors"
	"sync"

	"hub-go/internal/hub"
	"hub-go/internal/storage"
)

// ErrInjected is returned by FailingStorage for the operations set to fail.
var ErrInjected = errors.New("injected storage failure")

func NewTestStorage() *storage.MemoryStorage {
	return storage.NewMemoryStorage()
}

// FailingStorage wraps a storage and fails Get or Set on demand.
type FailingStorage struct {
	hub.Storage

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	getCalls int
	setCalls int
}

var _ hub.Storage = (*FailingStorage)(nil)

func NewFailingStorage(inner hub.Storage) *FailingStorage {
	return &FailingStorage{Storage: inner}
}

func (f *FailingStorage) FailGets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = fail
}

func (f *FailingStorage) FailSets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = fail
}

// Calls reports how many Get and Set calls reached the storage.
func (f *FailingStorage) Calls() (gets, sets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, f.setCalls
}

func (f *FailingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	f.getCalls++
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Storage.Get(ctx, key)
}

func (f *FailingStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.setCalls++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Storage.Set(ctx, key, value)
}
