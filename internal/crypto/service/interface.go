// Package service implements the vault's cryptography: key derivation, the AEAD ciphers, the
// encryption engine that seals API key values, and the KMS integration that protects the
// passphrase at rest.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
)

// AEAD is an authenticated cipher bound to a single key.
type AEAD interface {
	// Encrypt seals plaintext under a freshly generated nonce and returns both.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext with the given nonce and aad.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length the cipher requires.
	NonceSize() int
}

// AEADManager builds AEAD ciphers.
type AEADManager interface {
	// CreateCipher creates a cipher for alg keyed with key.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver turns a passphrase into fixed-length key material.
type KeyDeriver interface {
	// Derive returns cryptoDomain.KeySize bytes. It is deterministic for a given passphrase and salt.
	Derive(passphrase, salt []byte) ([]byte, error)
}

// EncryptionEngine seals and opens API key values under the process master key.
type EncryptionEngine interface {
	// Seal encrypts plaintext under a fresh random iv. aad is authenticated but not stored.
	Seal(plaintext, aad []byte) (ciphertext, iv []byte, err error)

	// Open decrypts a sealed value. Any failure is reported as cryptoDomain.ErrDecryptionFailed.
	Open(ciphertext, iv, aad []byte) ([]byte, error)

	// Algorithm reports the cipher the engine uses.
	Algorithm() cryptoDomain.Algorithm
}

// KMSService opens KMS keepers.
type KMSService interface {
	// OpenKeeper opens the keeper for keyURI (gcpkms://, awskms://, azurekeyvault://,
	// hashivault:// or base64key://).
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
