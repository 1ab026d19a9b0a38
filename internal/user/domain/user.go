// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/apivault/internal/errors"
)

// User is an account that owns API keys.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
	// Password is the go-pwdhash encoded hash, never the plaintext.
	Password  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput contains the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register and login: the account and a bearer token for it.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserInactive indicates the account has been disabled.
	ErrUserInactive = errors.Wrap(errors.ErrUnauthorized, "user is inactive")
)
