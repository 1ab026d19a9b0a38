package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/apivault/internal/errors"
)

// PasswordService hashes and verifies account passwords.
type PasswordService interface {
	// Hash returns the encoded Argon2id hash of plain.
	Hash(plain string) (string, error)
	// Compare reports whether plain matches hash. A malformed hash never matches.
	Compare(plain, hash string) bool
}

type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash implements PasswordService.
func (s *passwordService) Hash(plain string) (string, error) {
	hash, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Compare implements PasswordService.
func (s *passwordService) Compare(plain, hash string) bool {
	ok, err := s.hasher.Verify([]byte(plain), hash)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}
