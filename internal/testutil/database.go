package testutil

import (
	"testing"

	"hub-go/internal/database"
)

// NewTestSQLiteStorage opens a migrated in-memory SQLite storage that is
// closed when the test completes.
func NewTestSQLiteStorage(t *testing.T) *database.SQLiteStorage {
	t.Helper()

	s, err := database.NewSQLiteStorage(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open sqlite storage: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
