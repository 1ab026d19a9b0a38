// Package mocks provides testify mocks for the auth use cases and their dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
	userDomain "github.com/allisson/apivault/internal/user/domain"
)

// MockAccessGate is a mock implementation of AccessGate.
type MockAccessGate struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method.
func (m *MockAccessGate) Authenticate(ctx context.Context, token string) (*authDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// MockUserLookup is a mock implementation of UserLookup.
type MockUserLookup struct {
	mock.Mock
}

// GetByID mocks the GetByID method.
func (m *MockUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// MockTokenService is a mock implementation of authService.TokenService.
type MockTokenService struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockTokenService) Issue(userID uuid.UUID) (*authDomain.IssuedToken, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssuedToken), args.Error(1)
}

// Parse mocks the Parse method.
func (m *MockTokenService) Parse(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockPasswordService is a mock implementation of authService.PasswordService.
type MockPasswordService struct {
	mock.Mock
}

// Hash mocks the Hash method.
func (m *MockPasswordService) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

// Compare mocks the Compare method.
func (m *MockPasswordService) Compare(plain, hash string) bool {
	args := m.Called(plain, hash)
	return args.Bool(0)
}
