// Package mocks provides testify mocks for the API key use case and repository.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
)

// MockAPIKeyUseCase is a mock implementation of usecase.APIKeyUseCase.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAPIKeyUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

// List mocks the List method.
func (m *MockAPIKeyUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

// Reveal mocks the Reveal method.
func (m *MockAPIKeyUseCase) Reveal(ctx context.Context, ownerID, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

// Update mocks the Update method.
func (m *MockAPIKeyUseCase) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input apikeyDomain.UpdateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

// SoftDelete mocks the SoftDelete method.
func (m *MockAPIKeyUseCase) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// CategoryStats mocks the CategoryStats method.
func (m *MockAPIKeyUseCase) CategoryStats(
	ctx context.Context,
	ownerID uuid.UUID,
) (*apikeyDomain.CategoryStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.CategoryStats), args.Error(1)
}

// MockAPIKeyRepository is a mock implementation of usecase.APIKeyRepository.
type MockAPIKeyRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// GetActive mocks the GetActive method.
func (m *MockAPIKeyRepository) GetActive(ctx context.Context, ownerID, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

// ExistsActiveName mocks the ExistsActiveName method.
func (m *MockAPIKeyRepository) ExistsActiveName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	args := m.Called(ctx, ownerID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

// List mocks the List method.
func (m *MockAPIKeyRepository) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

// Update mocks the Update method.
func (m *MockAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// TouchLastUsed mocks the TouchLastUsed method.
func (m *MockAPIKeyRepository) TouchLastUsed(ctx context.Context, ownerID, id uuid.UUID, usedAt time.Time) error {
	args := m.Called(ctx, ownerID, id, usedAt)
	return args.Error(0)
}

// Deactivate mocks the Deactivate method.
func (m *MockAPIKeyRepository) Deactivate(ctx context.Context, ownerID, id uuid.UUID, deletedAt time.Time) error {
	args := m.Called(ctx, ownerID, id, deletedAt)
	return args.Error(0)
}

// CountByCategory mocks the CountByCategory method.
func (m *MockAPIKeyRepository) CountByCategory(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]apikeyDomain.CategoryCount, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apikeyDomain.CategoryCount), args.Error(1)
}
