package domain

import "context"

// MasterKey is the symmetric key every API key value is sealed under. It is derived once at
// startup and held for the life of the process; it is never persisted.
type MasterKey struct {
	// KDF records how the key was derived, for startup logging.
	KDF KDF
	// Key is the raw KeySize-byte key material.
	Key []byte
}

// Close zeroes the key material.
func (m *MasterKey) Close() {
	if m == nil {
		return
	}
	Zero(m.Key)
	m.Key = nil
}

// KMSKeeper is the subset of *gocloud.dev/secrets.Keeper used to protect the passphrase.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
