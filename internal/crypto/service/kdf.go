package service

import (
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"

	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
)

// scrypt cost parameters. N=2^14, r=8, p=1 is the widely deployed interactive setting and the
// one existing vault data was derived with.
const (
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// Argon2id cost parameters (RFC 9106 second recommended option, reduced parallelism).
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// ScryptDeriver derives keys with scrypt.
type ScryptDeriver struct{}

// Derive implements KeyDeriver.
func (ScryptDeriver) Derive(passphrase, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, cryptoDomain.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key with scrypt: %w", err)
	}
	return key, nil
}

// Argon2idDeriver derives keys with Argon2id.
type Argon2idDeriver struct{}

// Derive implements KeyDeriver.
func (Argon2idDeriver) Derive(passphrase, salt []byte) ([]byte, error) {
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, cryptoDomain.KeySize), nil
}

// NewKeyDeriver returns the deriver for kdf, or ErrUnsupportedKDF.
func NewKeyDeriver(kdf cryptoDomain.KDF) (KeyDeriver, error) {
	switch kdf {
	case cryptoDomain.Scrypt:
		return ScryptDeriver{}, nil
	case cryptoDomain.Argon2id:
		return Argon2idDeriver{}, nil
	default:
		return nil, cryptoDomain.ErrUnsupportedKDF
	}
}
