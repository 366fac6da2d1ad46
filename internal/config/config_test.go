package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/hub",
		LogDir:   "/home/user/.local/share/hub/log",
		Codec:    "yaml",
		IDFormat: "uuid",
		Storage: StorageConfig{
			Type:       "s3",
			Encrypted:  true,
			S3Bucket:   "household",
			S3Prefix:   "hub/",
			S3Region:   "eu-west-1",
			S3Endpoint: "http://localhost:9000",
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/hub/keys/hub.pub",
			PrivateKeyPath: "/home/user/.local/share/hub/keys/hub.key",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Codec != "yaml" {
		t.Errorf("Codec = %q, want %q", got.Codec, "yaml")
	}
	if got.IDFormat != "uuid" {
		t.Errorf("IDFormat = %q, want %q", got.IDFormat, "uuid")
	}
	if got.Storage != original.Storage {
		t.Errorf("Storage = %+v, want %+v", got.Storage, original.Storage)
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/hub")

	if cfg.BaseDir != "/data/hub" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/hub")
	}
	if cfg.LogDir != "/data/hub/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/hub/log")
	}
	if cfg.Storage.Type != "filesystem" {
		t.Errorf("Storage.Type = %q, want %q", cfg.Storage.Type, "filesystem")
	}
	if cfg.Storage.Dir != "/data/hub/data" {
		t.Errorf("Storage.Dir = %q, want %q", cfg.Storage.Dir, "/data/hub/data")
	}
	if cfg.Encryption.PublicKeyPath != "/data/hub/keys/hub.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/hub/keys/hub.pub")
	}
	if cfg.Encryption.PrivateKeyPath != "/data/hub/keys/hub.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", cfg.Encryption.PrivateKeyPath, "/data/hub/keys/hub.key")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "memory storage",
			mutate: func(c *Config) { c.Storage = StorageConfig{Type: "memory"} },
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.Storage.Type = "floppy" },
			wantErr: "unknown storage type",
		},
		{
			name:    "sqlite without dir",
			mutate:  func(c *Config) { c.Storage = StorageConfig{Type: "sqlite"} },
			wantErr: "requires dir",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Storage = StorageConfig{Type: "s3"} },
			wantErr: "s3_bucket",
		},
		{
			name: "s3 with half the credentials",
			mutate: func(c *Config) {
				c.Storage = StorageConfig{Type: "s3", S3Bucket: "b", S3AccessKeyID: "AKIA"}
			},
			wantErr: "s3_secret_access_key",
		},
		{
			name:    "firestore without project",
			mutate:  func(c *Config) { c.Storage = StorageConfig{Type: "firestore"} },
			wantErr: "firestore_project",
		},
		{
			name:    "unknown codec",
			mutate:  func(c *Config) { c.Codec = "xml" },
			wantErr: "unknown codec",
		},
		{
			name:    "unknown id format",
			mutate:  func(c *Config) { c.IDFormat = "serial" },
			wantErr: "unknown id_format",
		},
		{
			name: "encrypted storage without key paths",
			mutate: func(c *Config) {
				c.Storage.Encrypted = true
				c.Encryption = EncryptionConfig{}
			},
			wantErr: "public_key_path",
		},
		{
			name: "encrypted storage with test encryptor",
			mutate: func(c *Config) {
				c.Storage.Encrypted = true
				c.Encryption = EncryptionConfig{Type: "test"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/data/hub")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "hub.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("config file mode = %o, want %o", perm, 0600)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "hub.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "hub.toml")
		cfg := NewConfig(dir)
		cfg.Storage.Type = "floppy"

		if err := Init(path, cfg); err == nil {
			t.Fatal("Init() expected error for invalid config")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("config file should not exist after failed Init(), stat error = %v", err)
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "hub.toml")
		cfg := NewConfig(dir)
		cfg.Storage = StorageConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Storage.Type != "memory" {
			t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/hub.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
