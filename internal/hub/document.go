package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Document is a single value persisted as one blob under a fixed key.
// It keeps the last committed encoding and decodes a fresh copy for every
// read, so callers may freely modify the maps and slices they are handed.
type Document[T any] struct {
	storage Storage
	key     string
	codec   Codec
	logger  Logger

	mu     sync.Mutex
	raw    []byte
	loaded bool
}

func NewDocument[T any](storage Storage, key string, codec Codec, logger Logger) *Document[T] {
	return &Document[T]{
		storage: storage,
		key:     key,
		codec:   codec,
		logger:  logger,
	}
}

// Get returns the stored value, or the zero value if nothing usable is stored.
func (d *Document[T]) Get(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.loadLocked(ctx); err != nil {
		var zero T
		return zero, err
	}
	return d.decodeLocked(), nil
}

// Mutate replaces the value with fn(current) and persists it.
func (d *Document[T]) Mutate(ctx context.Context, fn func(T) (T, error)) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if err := d.loadLocked(ctx); err != nil {
		return zero, err
	}

	next, err := fn(d.decodeLocked())
	if err != nil {
		return zero, err
	}

	data, err := d.codec.Marshal(next)
	if err != nil {
		return zero, fmt.Errorf("encoding %s: %w", d.key, err)
	}
	if err := d.storage.Set(ctx, d.key, data); err != nil {
		return zero, fmt.Errorf("saving %s: %w", d.key, err)
	}
	d.raw = data
	return next, nil
}

// Reset removes the stored value.
func (d *Document[T]) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.storage.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("removing %s: %w", d.key, err)
	}
	d.raw = nil
	d.loaded = true
	return nil
}

func (d *Document[T]) loadLocked(ctx context.Context) error {
	if d.loaded {
		return nil
	}
	data, err := d.storage.Get(ctx, d.key)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("loading %s: %w", d.key, err)
	}
	d.raw = data
	d.loaded = true
	return nil
}

func (d *Document[T]) decodeLocked() T {
	var v T
	if len(d.raw) == 0 {
		return v
	}
	if err := d.codec.Unmarshal(d.raw, &v); err != nil {
		d.logger.Warn("discarding unreadable document", "key", d.key, "codec", d.codec.Name(), "error", err)
		var zero T
		return zero
	}
	return v
}
