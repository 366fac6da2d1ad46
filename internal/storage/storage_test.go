package storage

import (
	"context"
	"errors"
	"slices"
	"testing"

	"hub-go/internal/hub"
)

// runStorageContract checks the behavior every backend shares.
func runStorageContract(t *testing.T, s hub.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "never_written")
		if !errors.Is(err, hub.ErrKeyNotFound) {
			t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		want := []byte(`[{"id":"1","text":"Buy milk"}]`)
		if err := s.Set(ctx, "todos", want); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get(ctx, "todos")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != string(want) {
			t.Errorf("Get() = %q, want %q", got, want)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set(ctx, "notes", []byte("first")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := s.Set(ctx, "notes", []byte("second")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get(ctx, "notes")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		for _, key := range []string{"", "a/b", ".hidden", "spaces are bad"} {
			if err := s.Set(ctx, key, []byte("x")); err == nil {
				t.Errorf("Set(%q) expected error", key)
			}
		}
	})

	t.Run("keys sorted", func(t *testing.T) {
		keys, err := s.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if !slices.Equal(keys, []string{"notes", "todos"}) {
			t.Errorf("Keys() = %v, want [notes todos]", keys)
		}
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		if err := s.Remove(ctx, "notes"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := s.Remove(ctx, "notes"); err != nil {
			t.Errorf("second Remove() error = %v", err)
		}
		if _, err := s.Get(ctx, "notes"); !errors.Is(err, hub.ErrKeyNotFound) {
			t.Errorf("Get() after Remove() error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("validate setup", func(t *testing.T) {
		if err := s.ValidateSetup(ctx); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}

func TestMemoryStorage(t *testing.T) {
	runStorageContract(t, NewMemoryStorage())
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	value := []byte("abc")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("Get() = %q, want %q (stored value aliased caller's slice)", got, "abc")
	}
	got[1] = 'Y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get() = %q, want %q (returned value aliased storage)", again, "abc")
	}
}

func TestMemoryStorage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStorage()
	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestFilterKeys(t *testing.T) {
	keys := []string{"calendar_events", "shopping_lists", "shopping_templates", "todos"}

	tests := []struct {
		pattern string
		want    []string
		wantErr bool
	}{
		{pattern: "", want: keys},
		{pattern: "shopping_*", want: []string{"shopping_lists", "shopping_templates"}},
		{pattern: "*s", want: []string{"calendar_events", "shopping_lists", "shopping_templates", "todos"}},
		{pattern: "{todos,calendar_*}", want: []string{"calendar_events", "todos"}},
		{pattern: "nothing*", want: nil},
		{pattern: "[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := FilterKeys(keys, tt.pattern)
			if tt.wantErr {
				if err == nil {
					t.Fatal("FilterKeys() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FilterKeys() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("FilterKeys(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
