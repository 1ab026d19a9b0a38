// Package usecase implements account registration, login and lookup.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/apivault/internal/user/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	// GetByID returns domain.ErrUserNotFound when no user has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByEmail looks up the lowercased email. Returns domain.ErrUserNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserUseCase defines the account operations exposed over HTTP.
type UserUseCase interface {
	// Register creates an account and returns it with a bearer token.
	Register(ctx context.Context, input domain.RegisterUserInput) (*domain.AuthResult, error)
	// Login verifies credentials and returns a fresh bearer token. Unknown emails and wrong
	// passwords are indistinguishable.
	Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error)
	// GetByID returns the account with the given id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
