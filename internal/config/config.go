package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for hub.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Codec      string           `toml:"codec"`     // "json" (default), "yaml" or "msgpack"
	IDFormat   string           `toml:"id_format"` // "timestamp" (default) or "uuid"
	Storage    StorageConfig    `toml:"storage"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// EncryptionConfig holds paths to the age key pair used when storage is encrypted.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// StorageConfig represents configuration for the key-value backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type      string `toml:"type"` // "memory", "filesystem", "sqlite", "s3" or "firestore"
	Encrypted bool   `toml:"encrypted"`

	// Directory for the filesystem backend, or for hub.db with the sqlite backend.
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// Firestore-specific fields (only used when Type == "firestore")
	FirestoreProject    string `toml:"firestore_project,omitempty"`
	FirestoreCollection string `toml:"firestore_collection,omitempty"`
}

// NewConfig creates a new Config rooted at baseDir with filesystem storage,
// JSON blobs and default key paths.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Codec:    "json",
		IDFormat: "timestamp",
		Storage: StorageConfig{
			Type: "filesystem",
			Dir:  filepath.Join(baseDir, "data"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "hub.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "hub.key"),
		},
	}
}

// Validate checks the fields each storage type depends on.
func (c *Config) Validate() error {
	switch c.Codec {
	case "", "json", "yaml", "msgpack":
	default:
		return fmt.Errorf("unknown codec: %q", c.Codec)
	}
	switch c.IDFormat {
	case "", "timestamp", "uuid":
	default:
		return fmt.Errorf("unknown id_format: %q", c.IDFormat)
	}

	s := c.Storage
	switch s.Type {
	case "memory":
	case "filesystem", "sqlite":
		if s.Dir == "" {
			return fmt.Errorf("%s storage requires dir to be set", s.Type)
		}
	case "s3":
		if s.S3Bucket == "" {
			return fmt.Errorf("s3 storage requires s3_bucket to be set")
		}
		if (s.S3AccessKeyID == "") != (s.S3SecretAccessKey == "") {
			return fmt.Errorf("s3 storage requires both s3_access_key_id and s3_secret_access_key, or neither")
		}
	case "firestore":
		if s.FirestoreProject == "" {
			return fmt.Errorf("firestore storage requires firestore_project to be set")
		}
	default:
		return fmt.Errorf("unknown storage type: %q", s.Type)
	}

	if s.Encrypted && (c.Encryption.Type == "" || c.Encryption.Type == "age") {
		if c.Encryption.PublicKeyPath == "" || c.Encryption.PrivateKeyPath == "" {
			return fmt.Errorf("encrypted storage requires public_key_path and private_key_path")
		}
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may carry S3 credentials.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes a new config file, refusing to overwrite an existing one.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
