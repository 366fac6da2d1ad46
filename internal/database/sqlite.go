package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hub-go/internal/database/migrations"
	"hub-go/internal/hub"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DBFileName is the database file created inside the configured storage dir.
const DBFileName = "hub.db"

// SQLiteStorage implements hub.Storage on a single entries table.
type SQLiteStorage struct {
	db     *sql.DB
	path   string
	logger hub.Logger
	now    func() time.Time
}

var _ hub.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (or creates) the database at path and migrates it
// to the latest schema. path can be ":memory:".
func NewSQLiteStorage(path string, logger hub.Logger) (*SQLiteStorage, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	if logger == nil {
		logger = hub.NewNopLogger()
	}
	return &SQLiteStorage{db: db, path: path, logger: logger, now: time.Now}, nil
}

// NewSQLiteStorageFromDir opens <dir>/hub.db, creating dir if needed.
func NewSQLiteStorageFromDir(dir string, logger hub.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return NewSQLiteStorage(filepath.Join(dir, DBFileName), logger)
}

// OpenConnection opens and configures a SQLite connection.
// A single connection is kept open so ":memory:" databases persist for the
// lifetime of the pool and writers never contend for the file lock.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return db, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, hub.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set inserts or replaces the value and bumps the entry's revision.
func (s *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := hub.ValidateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (key, value, created_at, updated_at, revision)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = entries.revision + 1`,
		key, value, now, now)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM entries ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Revision returns how many times key has been written, or 0 if it is absent.
func (s *SQLiteStorage) Revision(ctx context.Context, key string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, "SELECT revision FROM entries WHERE key = ?", key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading revision of %s: %w", key, err)
	}
	return rev, nil
}

// ValidateSetup pings the database and checks the schema version.
func (s *SQLiteStorage) ValidateSetup(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}
	return s.CheckMigrations()
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStorage) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStorage) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// BackupTo writes a consistent copy of the database to destPath using VACUUM INTO.
// destPath must not exist yet.
func (s *SQLiteStorage) BackupTo(destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("backup destination already exists: %s", destPath)
	}
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	s.logger.Info("database exported", "path", destPath)
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
