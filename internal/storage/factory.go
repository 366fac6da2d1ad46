package storage

import (
	"context"
	"fmt"

	"hub-go/internal/config"
	"hub-go/internal/database"
	"hub-go/internal/hub"
)

// NewStorageFromConfig creates the backend named by the storage config type.
// Encryption is layered on separately since it needs the passphrase.
func NewStorageFromConfig(ctx context.Context, cfg config.StorageConfig, logger hub.Logger) (hub.Storage, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem storage requires dir to be set")
		}
		return NewFileSystemStorage(cfg.Dir, logger)
	case "sqlite":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("sqlite storage requires dir to be set")
		}
		return database.NewSQLiteStorageFromDir(cfg.Dir, logger)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires s3_bucket to be set")
		}
		return NewS3Storage(ctx, cfg)
	case "firestore":
		if cfg.FirestoreProject == "" {
			return nil, fmt.Errorf("firestore storage requires firestore_project to be set")
		}
		return NewFirestoreStorage(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
