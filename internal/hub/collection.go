package hub

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Record is an item held in a Collection.
type Record interface {
	RecordID() string
}

// Position selects where Insert places a new record.
type Position int

const (
	Append Position = iota
	Prepend
)

// Collection is an ordered set of records persisted as one blob under a fixed key.
//
// Every mutation re-serializes the whole collection and overwrites the blob.
// Mutations are serialized by a mutex, and the cached encoding is only replaced
// once the write has succeeded, so a failed write leaves the collection as it was.
// Reads decode a fresh copy, so records handed out share no slices with the cache.
// Between processes sharing a backend the last full write wins.
type Collection[T Record] struct {
	storage Storage
	key     string
	codec   Codec
	logger  Logger

	mu     sync.Mutex
	raw    []byte
	loaded bool
}

// NewCollection creates a collection bound to key. Nothing is read until first use.
func NewCollection[T Record](storage Storage, key string, codec Codec, logger Logger) *Collection[T] {
	return &Collection[T]{
		storage: storage,
		key:     key,
		codec:   codec,
		logger:  logger,
	}
}

// Load reads the collection if it has not been read yet and returns a copy of it.
// A missing key or an undecodable blob yields an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked(ctx)
}

// Reload discards the cached copy and reads the blob again.
func (c *Collection[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = false
	return c.loadLocked(ctx)
}

// List is an alias of Load for read-only callers.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.Load(ctx)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.snapshotLocked(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return zero, notFound(c.key, id)
	}
	return items[i], nil
}

// Insert adds rec at the given position and persists the collection.
func (c *Collection[T]) Insert(ctx context.Context, rec T, pos Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if rec.RecordID() == "" {
		return invalid("id", "must not be blank")
	}
	if indexOf(items, rec.RecordID()) >= 0 {
		return fmt.Errorf("%s %q: %w", c.key, rec.RecordID(), ErrDuplicateID)
	}

	if pos == Prepend {
		items = slices.Insert(items, 0, rec)
	} else {
		items = append(items, rec)
	}
	return c.commitLocked(ctx, items)
}

// Update replaces the record with the given id by fn(old) and persists the collection.
// Returns ErrNotFound if the id is unknown. fn must not change the record id.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.snapshotLocked(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return zero, notFound(c.key, id)
	}

	updated, err := fn(items[i])
	if err != nil {
		return zero, err
	}
	if updated.RecordID() != id {
		return zero, fmt.Errorf("update of %s %q changed its id to %q", c.key, id, updated.RecordID())
	}

	items[i] = updated
	if err := c.commitLocked(ctx, items); err != nil {
		return zero, err
	}
	return updated, nil
}

// Delete removes the record with the given id and persists the collection.
// Deleting an unknown id is a no-op and reports false.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := c.DeleteWhere(ctx, func(rec T) bool { return rec.RecordID() == id })
	return n > 0, err
}

// DeleteWhere removes every record matching pred. Nothing is written if no record matches.
func (c *Collection[T]) DeleteWhere(ctx context.Context, pred func(T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.snapshotLocked(ctx)
	if err != nil {
		return 0, err
	}

	n := len(items)
	kept := slices.DeleteFunc(items, pred)
	removed := n - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := c.commitLocked(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Replace overwrites the whole collection with recs.
func (c *Collection[T]) Replace(ctx context.Context, recs []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if seen[rec.RecordID()] {
			return fmt.Errorf("%s %q: %w", c.key, rec.RecordID(), ErrDuplicateID)
		}
		seen[rec.RecordID()] = true
	}
	return c.commitLocked(ctx, recs)
}

func (c *Collection[T]) loadLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	data, err := c.storage.Get(ctx, c.key)
	if errors.Is(err, ErrKeyNotFound) {
		c.raw = nil
		c.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", c.key, err)
	}

	var items []T
	if err := c.codec.Unmarshal(data, &items); err != nil {
		c.logger.Warn("discarding unreadable collection", "key", c.key, "codec", c.codec.Name(), "error", err)
		data = nil
	}
	c.raw = data
	c.loaded = true
	c.logger.Debug("collection loaded", "key", c.key, "count", len(items))
	return nil
}

// snapshotLocked decodes a private copy of the cached collection.
func (c *Collection[T]) snapshotLocked(ctx context.Context) ([]T, error) {
	if err := c.loadLocked(ctx); err != nil {
		return nil, err
	}
	if len(c.raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := c.codec.Unmarshal(c.raw, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.key, err)
	}
	return items, nil
}

func (c *Collection[T]) commitLocked(ctx context.Context, next []T) error {
	if next == nil {
		next = []T{}
	}
	data, err := c.codec.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}
	if err := c.storage.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("saving %s: %w", c.key, err)
	}
	c.raw = data
	c.loaded = true
	return nil
}

func indexOf[T Record](items []T, id string) int {
	return slices.IndexFunc(items, func(rec T) bool { return rec.RecordID() == id })
}
