package storage

import (
	"context"
	"fmt"

	"hub-go/internal/hub"
)

// EncryptedStorage encrypts every value before it reaches the wrapped backend.
// Keys are stored in the clear.
type EncryptedStorage struct {
	inner hub.Storage
	enc   hub.Encryptor
	open  hub.Opener
}

var (
	_ hub.Storage = (*EncryptedStorage)(nil)
	_ hub.Watcher = (*EncryptedStorage)(nil)
)

// NewEncryptedStorage wraps inner. open comes from unlocking enc and may be nil,
// in which case the storage can write but every Get fails.
func NewEncryptedStorage(inner hub.Storage, enc hub.Encryptor, open hub.Opener) *EncryptedStorage {
	return &EncryptedStorage{inner: inner, enc: enc, open: open}
}

// Unwrap returns the backend holding the ciphertext.
func (s *EncryptedStorage) Unwrap() hub.Storage {
	return s.inner
}

func (s *EncryptedStorage) Get(ctx context.Context, key string) ([]byte, error) {
	ciphertext, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.open == nil {
		return nil, fmt.Errorf("decrypting %s: storage is locked", key)
	}
	plaintext, err := s.open.Open(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", key, err)
	}
	return plaintext, nil
}

func (s *EncryptedStorage) Set(ctx context.Context, key string, value []byte) error {
	ciphertext, err := s.enc.Seal(value)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, ciphertext)
}

func (s *EncryptedStorage) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *EncryptedStorage) Keys(ctx context.Context) ([]string, error) {
	return s.inner.Keys(ctx)
}

func (s *EncryptedStorage) ValidateSetup(ctx context.Context) error {
	if !s.enc.IsConfigured() {
		return fmt.Errorf("encryption keys are not configured; run 'hub keys init'")
	}
	return s.inner.ValidateSetup(ctx)
}

func (s *EncryptedStorage) Close() error {
	return s.inner.Close()
}

// Watch passes through to the wrapped backend if it supports watching.
func (s *EncryptedStorage) Watch(ctx context.Context) (<-chan hub.KeyEvent, error) {
	w, ok := s.inner.(hub.Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}
