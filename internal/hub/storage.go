package hub

import (
	"context"
	"fmt"
)

// Storage is the key-value service every collection is persisted through.
// Each key holds one opaque blob; writes always replace the whole value.
type Storage interface {
	// Get returns the value stored under key.
	// Returns an error wrapping ErrKeyNotFound if nothing was ever stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys returns every stored key in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// ValidateSetup verifies that the backend is reachable and usable.
	ValidateSetup(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// KeyOp describes what happened to a key.
type KeyOp string

const (
	KeySet     KeyOp = "set"
	KeyRemoved KeyOp = "removed"
)

// KeyEvent reports a change to a stored key.
type KeyEvent struct {
	Key string
	Op  KeyOp
}

// Watcher is implemented by backends that can report changes made by other processes.
type Watcher interface {
	// Watch streams key events until ctx is cancelled. The channel is closed on exit.
	Watch(ctx context.Context) (<-chan KeyEvent, error)
}

// ValidateKey checks that key is usable by every backend: non-empty, at most
// 128 bytes, built from letters, digits, '_', '-' and '.', and not starting with '.'.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key is empty")
	}
	if len(key) > 128 {
		return fmt.Errorf("storage key too long: %d bytes", len(key))
	}
	if key[0] == '.' {
		return fmt.Errorf("storage key may not start with '.': %q", key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return fmt.Errorf("storage key contains invalid character %q: %q", r, key)
		}
	}
	return nil
}
