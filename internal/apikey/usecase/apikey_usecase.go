package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
	cryptoService "github.com/allisson/apivault/internal/crypto/service"
	"github.com/allisson/apivault/internal/database"
	apperrors "github.com/allisson/apivault/internal/errors"
	appValidation "github.com/allisson/apivault/internal/validation"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
	maxServiceLength     = 50
	maxKeyValueLength    = 8192
)

// apiKeyUseCase implements APIKeyUseCase.
type apiKeyUseCase struct {
	txManager  database.TxManager
	apiKeyRepo APIKeyRepository
	engine     cryptoService.EncryptionEngine
}

// NewAPIKeyUseCase creates an APIKeyUseCase sealing values with engine.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	apiKeyRepo APIKeyRepository,
	engine cryptoService.EncryptionEngine,
) APIKeyUseCase {
	return &apiKeyUseCase{
		txManager:  txManager,
		apiKeyRepo: apiKeyRepo,
		engine:     engine,
	}
}

// Create validates the input, seals the value under a fresh IV and stores the key.
func (a *apiKeyUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Service = strings.TrimSpace(input.Service)
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		input.Category = string(apikeyDomain.CategoryOther)
	}

	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key := &apikeyDomain.APIKey{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Category:    apikeyDomain.Category(input.Category),
		Service:     input.Service,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	plaintext := []byte(input.KeyValue)
	defer cryptoDomain.Zero(plaintext)

	ciphertext, iv, err := a.engine.Seal(plaintext, key.AssociatedData())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal api key")
	}
	key.Ciphertext = ciphertext
	key.IV = iv

	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		// The store's unique index is the authority; this check only gives the common case a
		// clean error before the insert.
		exists, err := a.apiKeyRepo.ExistsActiveName(txCtx, ownerID, key.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return apikeyDomain.ErrDuplicateName
		}

		return a.apiKeyRepo.Create(txCtx, key)
	})
	if err != nil {
		return nil, err
	}

	return redact(key), nil
}

// List returns the owner's active keys, newest first, without secret material.
func (a *apiKeyUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = apikeyDomain.Category(strings.TrimSpace(string(filter.Category)))
	if filter.Category.IsAll() {
		filter.Category = ""
	}

	keys, err := a.apiKeyRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		redact(key)
	}
	return keys, nil
}

// Reveal decrypts the key and stamps LastUsedAt. A key that fails to open is reported as not
// found; the decryption failure stays in the error chain for logging.
func (a *apiKeyUseCase) Reveal(ctx context.Context, ownerID, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	key, err := a.apiKeyRepo.GetActive(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	plaintext, err := a.engine.Open(key.Ciphertext, key.IV, key.AssociatedData())
	if err != nil {
		return nil, apperrors.Join(apikeyDomain.ErrAPIKeyNotFound, err)
	}

	usedAt := time.Now().UTC()
	if err := a.apiKeyRepo.TouchLastUsed(ctx, ownerID, id, usedAt); err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, err
	}

	key.LastUsedAt = &usedAt
	key.KeyValue = plaintext
	return redact(key), nil
}

// Update applies a partial metadata update. The stored value is never re-sealed.
func (a *apiKeyUseCase) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input apikeyDomain.UpdateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	input.Name = trimPtr(input.Name)
	input.Category = trimPtr(input.Category)
	input.Description = trimPtr(input.Description)
	input.Service = trimPtr(input.Service)

	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

	var updated *apikeyDomain.APIKey
	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		key, err := a.apiKeyRepo.GetActive(txCtx, ownerID, id)
		if err != nil {
			return err
		}

		if input.Name != nil && *input.Name != key.Name {
			exists, err := a.apiKeyRepo.ExistsActiveName(txCtx, ownerID, *input.Name, id)
			if err != nil {
				return err
			}
			if exists {
				return apikeyDomain.ErrDuplicateName
			}
			key.Name = *input.Name
		}
		if input.Category != nil {
			key.Category = apikeyDomain.Category(*input.Category)
		}
		if input.Description != nil {
			key.Description = *input.Description
		}
		if input.Service != nil {
			key.Service = *input.Service
		}
		key.UpdatedAt = time.Now().UTC()

		if err := a.apiKeyRepo.Update(txCtx, key); err != nil {
			return err
		}

		updated = key
		return nil
	})
	if err != nil {
		return nil, err
	}

	return redact(updated), nil
}

// SoftDelete marks the key inactive, which also frees its name for reuse.
func (a *apiKeyUseCase) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	return a.apiKeyRepo.Deactivate(ctx, ownerID, id, time.Now().UTC())
}

// CategoryStats counts the owner's active keys per category, largest first.
func (a *apiKeyUseCase) CategoryStats(
	ctx context.Context,
	ownerID uuid.UUID,
) (*apikeyDomain.CategoryStats, error) {
	counts, err := a.apiKeyRepo.CountByCategory(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(counts, func(x, y apikeyDomain.CategoryCount) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Category, y.Category)
	})

	stats := &apikeyDomain.CategoryStats{Stats: counts}
	if stats.Stats == nil {
		stats.Stats = []apikeyDomain.CategoryCount{}
	}
	for _, count := range counts {
		stats.Total += count.Count
	}

	return stats, nil
}

func validateCreateInput(input apikeyDomain.CreateAPIKeyInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, maxNameLength).Error("name must be at most 100 characters"),
		),
		validation.Field(&input.KeyValue,
			validation.Required.Error("key value is required"),
			validation.Length(1, maxKeyValueLength).Error("key value must be at most 8192 bytes"),
		),
		validation.Field(&input.Category,
			validation.In(apikeyDomain.CategoryValues()...).Error("category is not supported"),
		),
		validation.Field(&input.Description,
			validation.RuneLength(0, maxDescriptionLength).Error("description must be at most 500 characters"),
		),
		validation.Field(&input.Service,
			validation.RuneLength(0, maxServiceLength).Error("service must be at most 50 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

func validateUpdateInput(input apikeyDomain.UpdateAPIKeyInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.NilOrNotEmpty.Error("name must not be blank"),
			validation.RuneLength(1, maxNameLength).Error("name must be at most 100 characters"),
		),
		validation.Field(&input.Category,
			validation.NilOrNotEmpty.Error("category must not be blank"),
			validation.In(apikeyDomain.CategoryValues()...).Error("category is not supported"),
		),
		validation.Field(&input.Description,
			validation.RuneLength(0, maxDescriptionLength).Error("description must be at most 500 characters"),
		),
		validation.Field(&input.Service,
			validation.RuneLength(0, maxServiceLength).Error("service must be at most 50 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// redact drops the ciphertext and IV before a key leaves the use case.
func redact(key *apikeyDomain.APIKey) *apikeyDomain.APIKey {
	key.Ciphertext = nil
	key.IV = nil
	return key
}
