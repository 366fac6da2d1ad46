package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hub-go/internal/config"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()
	dir := t.TempDir()
	return NewAgeEncryptor(config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "hub.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "hub.key"),
	})
}

// setupAgeEncryptor returns an encryptor with a key pair protected by passphrase.
func setupAgeEncryptor(t *testing.T, passphrase string) *AgeEncryptor {
	t.Helper()
	e := newTestAgeEncryptor(t)
	if err := e.Setup(passphrase); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return e
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if e.IsConfigured() {
		t.Fatal("IsConfigured() = true before Setup")
	}
	if err := e.Setup("pw"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup")
	}

	pub, err := os.ReadFile(e.publicKeyPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(pub), "age1") {
		t.Errorf("public key = %q, want age1 recipient", pub)
	}

	priv, err := os.ReadFile(e.privateKeyPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(priv), "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Errorf("private key is not armored: %q", priv[:min(len(priv), 40)])
	}
	if strings.Contains(string(priv), "AGE-SECRET-KEY") {
		t.Error("private key file contains the unwrapped identity")
	}
	info, err := os.Stat(e.privateKeyPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("private key mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestAgeEncryptor_SealOpen(t *testing.T) {
	t.Parallel()

	e := setupAgeEncryptor(t, "pw")
	o, err := e.Unlock("pw")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "collection blob", input: []byte(`[{"id":"1","text":"Buy milk"}]`)},
		{name: "empty", input: []byte{}},
		{name: "binary", input: []byte{0x00, 0xff, 0x01, 0xfe}},
		{name: "large", input: bytes.Repeat([]byte("abcdef"), 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := e.Seal(tt.input)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if len(tt.input) > 0 && bytes.Contains(sealed, tt.input) {
				t.Error("sealed blob contains plaintext")
			}
			opened, err := o.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(opened, tt.input) {
				t.Errorf("Open() returned %d bytes, want %d", len(opened), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_SealWithReloadedKeys(t *testing.T) {
	t.Parallel()

	e := setupAgeEncryptor(t, "pw")
	// A second encryptor over the same files reads the public key from disk.
	reloaded := NewAgeEncryptor(config.EncryptionConfig{
		PublicKeyPath:  e.publicKeyPath,
		PrivateKeyPath: e.privateKeyPath,
	})
	sealed, err := reloaded.Seal([]byte("note"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	o, err := e.Unlock("pw")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if got, err := o.Open(sealed); err != nil || string(got) != "note" {
		t.Errorf("Open() = %q, %v; want note", got, err)
	}
}

func TestAgeEncryptor_UnlockWrongPassphrase(t *testing.T) {
	t.Parallel()

	e := setupAgeEncryptor(t, "correct")
	_, err := e.Unlock("wrong")
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Unlock() error = %v, want ErrWrongPassphrase", err)
	}
}

func TestAgeEncryptor_BeforeSetup(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if _, err := e.Seal([]byte("data")); err == nil {
		t.Error("Seal() before Setup should return error")
	}
	if _, err := e.Unlock("pw"); err == nil {
		t.Error("Unlock() before Setup should return error")
	}
}

func TestAgeOpener_RejectsForeignBlob(t *testing.T) {
	t.Parallel()

	mine := setupAgeEncryptor(t, "pw")
	other := setupAgeEncryptor(t, "pw")

	sealed, err := other.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	o, err := mine.Unlock("pw")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if _, err := o.Open(sealed); err == nil {
		t.Error("Open() of a blob sealed to another key should fail")
	}
	if _, err := o.Open([]byte(`[{"id":"1"}]`)); err == nil {
		t.Error("Open() of a plaintext blob should fail")
	}
}

func TestAgeEncryptor_SetupRefusesToOverwrite(t *testing.T) {
	t.Parallel()

	e := setupAgeEncryptor(t, "first")
	if err := e.Setup("second"); !errors.Is(err, ErrKeysExist) {
		t.Fatalf("second Setup() error = %v, want ErrKeysExist", err)
	}
	if _, err := e.Unlock("first"); err != nil {
		t.Errorf("Unlock() with original passphrase error = %v", err)
	}
}

func TestAgeEncryptor_SetupRejectsEmptyPassphrase(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup(""); err == nil {
		t.Fatal("Setup(\"\") expected error")
	}
	if e.IsConfigured() {
		t.Error("IsConfigured() = true after rejected Setup")
	}
}
