// Package domain defines the authenticated identity and token types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/apivault/internal/errors"
)

// Principal is the caller resolved from a bearer token. Its UserID is the owner every vault
// operation is scoped to.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// IssuedToken is a signed bearer token and the moment it stops being accepted.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Authentication errors. All of them surface as 401.
var (
	// ErrInvalidToken covers malformed, badly signed, expired and wrongly issued tokens.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.Wrap(errors.ErrUnauthorized, "missing bearer token")
)
