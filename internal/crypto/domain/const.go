package domain

import "strings"

// Algorithm identifies the AEAD cipher used to seal API key values.
//
// Both supported algorithms take a 256-bit key, a 12-byte nonce and append a 16-byte
// authentication tag to the ciphertext, so stored records have the same shape whichever
// one is configured. The algorithm is chosen once per deployment; records sealed under one
// algorithm cannot be opened under the other.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Fastest on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Constant-time in software, preferred without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration value into an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown names.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// KDF identifies the key derivation function that turns the configured passphrase into the
// master key.
//
// Derivation must be deterministic: the same passphrase and salt have to produce the same key
// across restarts, otherwise every stored record becomes unreadable.
type KDF string

const (
	// Scrypt uses N=16384, r=8, p=1. These match the parameters of existing deployments, so a
	// vault migrated from them keeps decrypting its data.
	Scrypt KDF = "scrypt"

	// Argon2id uses time=3, memory=64 MiB, threads=4.
	Argon2id KDF = "argon2id"
)

// ParseKDF converts a configuration value into a KDF.
// Returns ErrUnsupportedKDF for unknown names.
func ParseKDF(s string) (KDF, error) {
	switch KDF(strings.ToLower(strings.TrimSpace(s))) {
	case Scrypt:
		return Scrypt, nil
	case Argon2id:
		return Argon2id, nil
	default:
		return "", ErrUnsupportedKDF
	}
}

// KeySize is the length in bytes of the derived master key.
const KeySize = 32
