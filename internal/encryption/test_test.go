package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"hub-go/internal/config"
)

func TestTestEncryptor_SealOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "collection blob", input: []byte(`[{"id":"1","text":"Buy milk"}]`)},
		{name: "empty", input: []byte{}},
		{name: "binary", input: []byte{0x00, 0xff, 0x01, 0xfe}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewTestEncryptor()
			sealed, err := e.Seal(tt.input)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if !bytes.HasPrefix(sealed, testHeader) {
				t.Errorf("Seal() = %q, want test header prefix", sealed)
			}

			o, err := e.Unlock("")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			opened, err := o.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(opened, tt.input) {
				t.Errorf("Open() = %q, want %q", opened, tt.input)
			}
		})
	}
}

func TestTestEncryptor_SealDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	input := []byte("milk")
	sealed, _ := NewTestEncryptor().Seal(input)
	input[0] = 'M'
	if !bytes.HasSuffix(sealed, []byte("milk")) {
		t.Errorf("sealed blob changed with its input: %q", sealed)
	}
}

func TestTestEncryptor_Unlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   string
		unlock  string
		wantErr error
	}{
		{name: "no setup accepts anything", unlock: "whatever"},
		{name: "matching passphrase", setup: "pw", unlock: "pw"},
		{name: "wrong passphrase", setup: "pw", unlock: "nope", wantErr: ErrWrongPassphrase},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEncryptor()
			if tt.setup != "" {
				if err := e.Setup(tt.setup); err != nil {
					t.Fatalf("Setup() error = %v", err)
				}
			}
			_, err := e.Unlock(tt.unlock)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Unlock() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTestOpener_RejectsUnsealed(t *testing.T) {
	t.Parallel()

	for _, in := range [][]byte{nil, []byte("HUB"), []byte(`{"plain":true}`)} {
		if _, err := (TestOpener{}).Open(in); err == nil {
			t.Errorf("Open(%q) expected error", in)
		}
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     string
		want    string
		wantErr bool
	}{
		{typ: "", want: "*encryption.AgeEncryptor"},
		{typ: "age", want: "*encryption.AgeEncryptor"},
		{typ: "test", want: "*encryption.TestEncryptor"},
		{typ: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.typ, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewEncryptorFromConfig() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig() error = %v", err)
			}
			if got := fmt.Sprintf("%T", enc); got != tt.want {
				t.Errorf("NewEncryptorFromConfig() type = %s, want %s", got, tt.want)
			}
		})
	}
}
