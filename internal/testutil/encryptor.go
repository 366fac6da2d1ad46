package testutil

import (
	"hub-go/internal/encryption"
	"hub-go/internal/hub"
)

func NewTestEncryptor() hub.Encryptor {
	return encryption.NewTestEncryptor()
}
