package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"hub-go/internal/hub"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:", nil)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get(context.Background(), "todos")
	if !errors.Is(err, hub.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestSQLiteStorage_SetGet(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{name: "json array", value: []byte(`[{"id":"1"}]`)},
		{name: "empty", value: []byte{}},
		{name: "binary", value: []byte{0x00, 0xff, 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStorage(t)

			if err := s.Set(ctx, "notes", tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(ctx, "notes")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestSQLiteStorage_SetOverwritesAndBumpsRevision(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, v := range []string{"one", "two", "three"} {
		if err := s.Set(ctx, "todos", []byte(v)); err != nil {
			t.Fatalf("Set(%q) error = %v", v, err)
		}
	}

	got, err := s.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "three" {
		t.Errorf("Get() = %q, want %q", got, "three")
	}

	rev, err := s.Revision(ctx, "todos")
	if err != nil {
		t.Fatalf("Revision() error = %v", err)
	}
	if rev != 3 {
		t.Errorf("Revision() = %d, want 3", rev)
	}
}

func TestSQLiteStorage_RejectsInvalidKey(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Set(context.Background(), "../etc/passwd", []byte("x")); err == nil {
		t.Error("Set() with invalid key expected error")
	}
}

func TestSQLiteStorage_RemoveAndKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, k := range []string{"todos", "notes", "calendar_events"} {
		if err := s.Set(ctx, k, []byte("[]")); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}

	if err := s.Remove(ctx, "notes"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(ctx, "never-written"); err != nil {
		t.Errorf("Remove() of missing key error = %v", err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"calendar_events", "todos"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSQLiteStorage_ValidateSetup(t *testing.T) {
	s := newTestStorage(t)

	if err := s.ValidateSetup(context.Background()); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewSQLiteStorageFromDir(dir, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStorageFromDir() error = %v", err)
	}
	if err := s.Set(ctx, "period_data", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStorageFromDir(dir, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if reopened.Path() != filepath.Join(dir, DBFileName) {
		t.Errorf("Path() = %q, want %q", reopened.Path(), filepath.Join(dir, DBFileName))
	}
	got, err := reopened.Get(ctx, "period_data")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %q, want %q", got, "[]")
	}
}

func TestSQLiteStorage_BackupTo(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.Set(ctx, "todos", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "export.db")
	if err := s.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	backup, err := NewSQLiteStorage(dest, nil)
	if err != nil {
		t.Fatalf("opening backup error = %v", err)
	}
	defer backup.Close()

	got, err := backup.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get() from backup error = %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Get() from backup = %q", got)
	}

	if err := s.BackupTo(dest); err == nil {
		t.Error("BackupTo() over existing file expected error")
	}
}
