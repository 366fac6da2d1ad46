package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"

	"hub-go/internal/hub"
)

const (
	blobExt   = ".blob"
	tmpPrefix = ".tmp-"
)

// FileSystemStorage keeps one file per key:
//
//	<root>/
//	  <key>.blob
//
// Writes go to a temp file in the same directory and are renamed into place,
// so a reader never sees a partially written blob.
type FileSystemStorage struct {
	root   string
	logger hub.Logger
}

var (
	_ hub.Storage = (*FileSystemStorage)(nil)
	_ hub.Watcher = (*FileSystemStorage)(nil)
)

// NewFileSystemStorage creates the root directory if needed.
func NewFileSystemStorage(root string, logger hub.Logger) (*FileSystemStorage, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if logger == nil {
		logger = hub.NewNopLogger()
	}
	return &FileSystemStorage{root: root, logger: logger}, nil
}

// Root returns the directory holding the blobs.
func (s *FileSystemStorage) Root() string {
	return s.root
}

func (s *FileSystemStorage) path(key string) string {
	return filepath.Join(s.root, key+blobExt)
}

func (s *FileSystemStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := hub.ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, hub.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileSystemStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := hub.ValidateKey(key); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(s.root, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func (s *FileSystemStorage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := hub.ValidateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *FileSystemStorage) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if key, ok := keyFromFilename(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// ValidateSetup verifies that the root is a writable directory.
func (s *FileSystemStorage) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("storage root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root is not a directory: %s", s.root)
	}
	check, err := os.CreateTemp(s.root, tmpPrefix+"check-*")
	if err != nil {
		return fmt.Errorf("storage root not writable: %w", err)
	}
	check.Close()
	return os.Remove(check.Name())
}

func (s *FileSystemStorage) Close() error {
	return nil
}

// Watch reports keys written or removed by any process until ctx is cancelled.
func (s *FileSystemStorage) Watch(ctx context.Context) (<-chan hub.KeyEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.root, err)
	}

	events := make(chan hub.KeyEvent)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				ke, ok := keyEvent(ev)
				if !ok {
					continue
				}
				select {
				case events <- ke:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("fsnotify error", "root", s.root, "error", err)
			}
		}
	}()
	return events, nil
}

// keyEvent maps a filesystem event to a key event. Temp files are ignored;
// a rename into place shows up as a Create of the final name.
func keyEvent(ev fsnotify.Event) (hub.KeyEvent, bool) {
	key, ok := keyFromFilename(filepath.Base(ev.Name))
	if !ok {
		return hub.KeyEvent{}, false
	}
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return hub.KeyEvent{Key: key, Op: hub.KeySet}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return hub.KeyEvent{Key: key, Op: hub.KeyRemoved}, true
	default:
		return hub.KeyEvent{}, false
	}
}

func keyFromFilename(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, blobExt) {
		return "", false
	}
	return strings.TrimSuffix(name, blobExt), true
}
