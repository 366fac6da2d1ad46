package encryption

import (
	"bytes"
	"fmt"

	"hub-go/internal/hub"
)

var testHeader = []byte("HUBTEST\x00")

// TestEncryptor marks blobs with a fixed header instead of encrypting them,
// so tests can see that a value went through the encryption layer.
// If Setup was called, Unlock checks the passphrase.
type TestEncryptor struct {
	passphrase string
}

var _ hub.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Seal(plaintext []byte) ([]byte, error) {
	return append(bytes.Clone(testHeader), plaintext...), nil
}

func (e *TestEncryptor) Unlock(passphrase string) (hub.Opener, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return TestOpener{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestOpener strips the header added by TestEncryptor.
type TestOpener struct{}

var _ hub.Opener = TestOpener{}

func (TestOpener) Open(sealed []byte) ([]byte, error) {
	plaintext, ok := bytes.CutPrefix(sealed, testHeader)
	if !ok {
		return nil, fmt.Errorf("missing test encryption header")
	}
	return bytes.Clone(plaintext), nil
}
