package hub

// Encryptor seals stored values at rest. Sealing needs only the public key,
// so writes work without a passphrase; reading requires an Opener from Unlock.
type Encryptor interface {
	// Setup creates the key pair, protecting the private key with passphrase.
	Setup(passphrase string) error

	// Seal encrypts one stored value.
	Seal(plaintext []byte) ([]byte, error)

	// Unlock decrypts the private key and returns an Opener for the session.
	Unlock(passphrase string) (Opener, error)

	// IsConfigured reports whether a key pair exists.
	IsConfigured() bool
}

// Opener decrypts values produced by Encryptor.Seal.
// It holds the unlocked private key in memory only.
type Opener interface {
	Open(sealed []byte) ([]byte, error)
}
