package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"hub-go/internal/config"
	"hub-go/internal/database"
	"hub-go/internal/encryption"
	"hub-go/internal/hub"
	"hub-go/internal/storage"
)

// PassphraseFunc supplies the passphrase that unlocks the private key.
type PassphraseFunc func() (string, error)

// Options control how a HubApp is built.
type Options struct {
	// Operation names the CLI command being run, e.g. "TodoAdd".
	Operation string
	// Passphrase is asked for only when storage is encrypted. A nil func
	// leaves encrypted storage locked: writes work, reads fail.
	Passphrase PassphraseFunc
	// Verbose mirrors every log line to stderr instead of warnings only.
	Verbose bool
}

// HubApp is the application layer between the CLI and the feature stores.
// It builds the storage backend from config, layers encryption on top when
// configured, and closes everything on Close.
type HubApp struct {
	cfg     *config.Config
	storage hub.Storage
	hub     *hub.Hub
	logger  hub.Logger
	logFile *os.File
}

// NewHubApp creates a fully wired HubApp from the given config.
// The caller must call Close when done.
func NewHubApp(ctx context.Context, cfg *config.Config, opts Options) (*HubApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	l, logFile, err := newLogger(cfg.LogDir, opID, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: l.With("op", opts.Operation)}

	closeLog := func() {
		if logFile != nil {
			logFile.Close()
		}
	}

	st, err := storage.NewStorageFromConfig(ctx, cfg.Storage, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	if cfg.Storage.Encrypted {
		est, err := encrypt(st, cfg.Encryption, opts.Passphrase)
		if err != nil {
			st.Close()
			closeLog()
			return nil, err
		}
		st = est
	}

	if err := st.ValidateSetup(ctx); err != nil {
		st.Close()
		closeLog()
		return nil, fmt.Errorf("validating %s storage: %w", cfg.Storage.Type, err)
	}

	codec, err := hub.CodecByName(cfg.Codec)
	if err != nil {
		st.Close()
		closeLog()
		return nil, err
	}
	clock := hub.RealClock{}
	ids, err := hub.NewIDGenerator(cfg.IDFormat, clock)
	if err != nil {
		st.Close()
		closeLog()
		return nil, err
	}

	logger.Debug("app ready", "storage", cfg.Storage.Type, "codec", codec.Name(), "encrypted", cfg.Storage.Encrypted)

	return &HubApp{
		cfg:     cfg,
		storage: st,
		hub: hub.NewHub(hub.Deps{
			Storage: st,
			Codec:   codec,
			Logger:  logger,
			Clock:   clock,
			IDs:     ids,
		}),
		logger:  logger,
		logFile: logFile,
	}, nil
}

// encrypt wraps st with the configured encryptor, unlocking it when a
// passphrase func is given.
func encrypt(st hub.Storage, cfg config.EncryptionConfig, passphrase PassphraseFunc) (hub.Storage, error) {
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		return nil, fmt.Errorf("storage is encrypted but no keys exist; run 'hub keys init'")
	}

	var opener hub.Opener
	if passphrase != nil {
		pass, err := passphrase()
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		opener, err = enc.Unlock(pass)
		if err != nil {
			return nil, fmt.Errorf("unlocking private key: %w", err)
		}
	}
	return storage.NewEncryptedStorage(st, enc, opener), nil
}

// Hub returns the feature stores.
func (a *HubApp) Hub() *hub.Hub {
	return a.hub
}

// Storage returns the backend the feature stores write to.
func (a *HubApp) Storage() hub.Storage {
	return a.storage
}

// Keys lists the stored keys matching pattern. An empty pattern matches everything.
func (a *HubApp) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := a.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	return storage.FilterKeys(keys, pattern)
}

// RemoveKey deletes a whole key, wiping the collection stored under it.
func (a *HubApp) RemoveKey(ctx context.Context, key string) error {
	if err := hub.ValidateKey(key); err != nil {
		return err
	}
	if err := a.storage.Remove(ctx, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	a.logger.Info("key removed", "key", key)
	return nil
}

// Watch reports keys changed by other processes until ctx is done.
func (a *HubApp) Watch(ctx context.Context) (<-chan hub.KeyEvent, error) {
	w, ok := a.storage.(hub.Watcher)
	if !ok {
		return nil, fmt.Errorf("%s storage: %w", a.cfg.Storage.Type, storage.ErrWatchUnsupported)
	}
	return w.Watch(ctx)
}

// Export writes a consistent copy of the sqlite database to dest. Encrypted
// values stay encrypted in the copy.
func (a *HubApp) Export(dest string) error {
	st := a.storage
	if es, ok := st.(*storage.EncryptedStorage); ok {
		st = es.Unwrap()
	}
	db, ok := st.(*database.SQLiteStorage)
	if !ok {
		return fmt.Errorf("export is only supported for sqlite storage, not %s", a.cfg.Storage.Type)
	}
	return db.BackupTo(dest)
}

// Close closes the storage backend and the log file.
func (a *HubApp) Close() error {
	var errs []error
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log file: %w", err))
		}
	}
	return errors.Join(errs...)
}
