package domain

import (
	"github.com/allisson/apivault/internal/errors"
)

// Cryptographic errors.
//
// Configuration errors wrap ErrInvalidInput. ErrDecryptionFailed deliberately wraps nothing:
// callers decide how it is surfaced, and the vault reports it as not found so that clients
// learn nothing about the validity of stored ciphertext.
var (
	// ErrUnsupportedAlgorithm is returned for an unknown cipher name.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrUnsupportedKDF is returned for an unknown key derivation function name.
	ErrUnsupportedKDF = errors.Wrap(errors.ErrInvalidInput, "unsupported key derivation function")

	// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrPassphraseRequired is returned at startup when no encryption passphrase is configured.
	// Without it no stored record could ever be decrypted, so the process must not start.
	ErrPassphraseRequired = errors.Wrap(errors.ErrInvalidInput, "encryption passphrase is required")

	// ErrSaltRequired is returned at startup when the derivation salt is empty.
	ErrSaltRequired = errors.Wrap(errors.ErrInvalidInput, "encryption salt is required")

	// ErrDecryptionFailed covers every reason a sealed value cannot be opened: wrong key,
	// malformed or tampered iv, tampered ciphertext or mismatched associated data. The
	// specific cause is never reported.
	ErrDecryptionFailed = errors.New("decryption failed")
)
