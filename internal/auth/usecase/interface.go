// Package usecase resolves bearer tokens into the principal that vault operations are scoped to.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
	userDomain "github.com/allisson/apivault/internal/user/domain"
)

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	// GetByID returns userDomain.ErrUserNotFound when no account has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

// AccessGate authenticates requests.
type AccessGate interface {
	// Authenticate verifies token and returns the caller. Any failure to establish an active
	// account wraps apperrors.ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*authDomain.Principal, error)
}
