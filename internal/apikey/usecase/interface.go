// Package usecase defines the interfaces and implementations for the API key vault.
// Use cases orchestrate the encryption engine and the repositories; every operation is scoped
// to a single owner and only ever touches that owner's active keys.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
)

// APIKeyRepository defines the persistence contract for API keys. Every lookup and mutation is
// filtered by owner and by is_active, so a key that belongs to someone else or was soft-deleted
// is indistinguishable from one that never existed.
type APIKeyRepository interface {
	Create(ctx context.Context, key *apikeyDomain.APIKey) error
	GetActive(ctx context.Context, ownerID, id uuid.UUID) (*apikeyDomain.APIKey, error)
	// ExistsActiveName reports whether the owner has an active key named name, ignoring excludeID.
	ExistsActiveName(ctx context.Context, ownerID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, ownerID uuid.UUID, filter apikeyDomain.ListFilter) ([]*apikeyDomain.APIKey, error)
	// Update writes the metadata columns only. Ciphertext and IV are never rewritten.
	Update(ctx context.Context, key *apikeyDomain.APIKey) error
	TouchLastUsed(ctx context.Context, ownerID, id uuid.UUID, usedAt time.Time) error
	Deactivate(ctx context.Context, ownerID, id uuid.UUID, deletedAt time.Time) error
	CountByCategory(ctx context.Context, ownerID uuid.UUID) ([]apikeyDomain.CategoryCount, error)
}

// APIKeyUseCase defines the vault operations exposed to the HTTP layer.
type APIKeyUseCase interface {
	Create(ctx context.Context, ownerID uuid.UUID, input apikeyDomain.CreateAPIKeyInput) (*apikeyDomain.APIKey, error)
	List(ctx context.Context, ownerID uuid.UUID, filter apikeyDomain.ListFilter) ([]*apikeyDomain.APIKey, error)
	// Reveal decrypts a key and records the access in LastUsedAt.
	//
	// Security Note: The returned APIKey carries plaintext in KeyValue.
	// Callers MUST zero it after use by calling cryptoDomain.Zero(key.KeyValue).
	Reveal(ctx context.Context, ownerID, id uuid.UUID) (*apikeyDomain.APIKey, error)
	Update(
		ctx context.Context,
		ownerID, id uuid.UUID,
		input apikeyDomain.UpdateAPIKeyInput,
	) (*apikeyDomain.APIKey, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error
	CategoryStats(ctx context.Context, ownerID uuid.UUID) (*apikeyDomain.CategoryStats, error)
}
