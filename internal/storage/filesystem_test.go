package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hub-go/internal/hub"
)

func TestFileSystemStorage(t *testing.T) {
	s, err := NewFileSystemStorage(filepath.Join(t.TempDir(), "data"), nil)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}
	runStorageContract(t, s)
}

func TestFileSystemStorage_Layout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFileSystemStorage(root, nil)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}

	if err := s.Set(ctx, "diary_entries", []byte("[]")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "diary_entries.blob"))
	if err != nil {
		t.Fatalf("blob file not written: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("blob content = %q, want %q", data, "[]")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("root holds %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFileSystemStorage_KeysIgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFileSystemStorage(root, nil)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}

	if err := s.Set(ctx, "todos", []byte("[]")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	for _, name := range []string{"README.txt", ".tmp-123", ".hidden.blob"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0600); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "todos" {
		t.Errorf("Keys() = %v, want [todos]", keys)
	}
}

func TestFileSystemStorage_ValidateSetup_NotADirectory(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStorage(root, nil)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(root, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := s.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error when root is a file")
	}
}

func TestFileSystemStorage_Watch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	root := t.TempDir()
	s, err := NewFileSystemStorage(root, nil)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}

	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Another process writing through its own storage instance.
	other, err := NewFileSystemStorage(root, nil)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}
	if err := other.Set(ctx, "reminders", []byte("[]")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	waitFor(t, ctx, events, hub.KeyEvent{Key: "reminders", Op: hub.KeySet})

	if err := other.Remove(ctx, "reminders"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	waitFor(t, ctx, events, hub.KeyEvent{Key: "reminders", Op: hub.KeyRemoved})

	cancel()
	for range events {
	}
}

func waitFor(t *testing.T, ctx context.Context, events <-chan hub.KeyEvent, want hub.KeyEvent) {
	t.Helper()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed before %+v", want)
			}
			if ev == want {
				return
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %+v", want)
		}
	}
}
