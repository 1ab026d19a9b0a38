package usecase

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
)

// memoryRepository is an in-memory APIKeyRepository that honours the same contract as the SQL
// and MongoDB repositories, including the active-name unique constraint.
type memoryRepository struct {
	mu   sync.Mutex
	keys map[uuid.UUID]*apikeyDomain.APIKey
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{keys: make(map[uuid.UUID]*apikeyDomain.APIKey)}
}

func cloneKey(key *apikeyDomain.APIKey) *apikeyDomain.APIKey {
	c := *key
	c.Ciphertext = slices.Clone(key.Ciphertext)
	c.IV = slices.Clone(key.IV)
	return &c
}

func (r *memoryRepository) activeNameTaken(ownerID uuid.UUID, name string, excludeID uuid.UUID) bool {
	for _, key := range r.keys {
		if key.OwnerID == ownerID && key.IsActive && key.Name == name && key.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(_ context.Context, key *apikeyDomain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeNameTaken(key.OwnerID, key.Name, uuid.Nil) {
		return apikeyDomain.ErrDuplicateName
	}
	r.keys[key.ID] = cloneKey(key)
	return nil
}

func (r *memoryRepository) get(ownerID, id uuid.UUID) (*apikeyDomain.APIKey, bool) {
	key, ok := r.keys[id]
	if !ok || key.OwnerID != ownerID || !key.IsActive {
		return nil, false
	}
	return key, true
}

func (r *memoryRepository) GetActive(_ context.Context, ownerID, id uuid.UUID) (*apikeyDomain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.get(ownerID, id)
	if !ok {
		return nil, apikeyDomain.ErrAPIKeyNotFound
	}
	return cloneKey(key), nil
}

func (r *memoryRepository) ExistsActiveName(
	_ context.Context,
	ownerID uuid.UUID,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeNameTaken(ownerID, name, excludeID), nil
}

func (r *memoryRepository) List(
	_ context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(filter.Search)
	keys := []*apikeyDomain.APIKey{}
	for _, key := range r.keys {
		if key.OwnerID != ownerID || !key.IsActive {
			continue
		}
		if filter.Category != "" && key.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(key.Name), search) &&
			!strings.Contains(strings.ToLower(key.Description), search) &&
			!strings.Contains(strings.ToLower(key.Service), search) {
			continue
		}
		keys = append(keys, cloneKey(key))
	}

	slices.SortFunc(keys, func(a, b *apikeyDomain.APIKey) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return keys, nil
}

func (r *memoryRepository) Update(_ context.Context, key *apikeyDomain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.get(key.OwnerID, key.ID)
	if !ok {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	if r.activeNameTaken(key.OwnerID, key.Name, key.ID) {
		return apikeyDomain.ErrDuplicateName
	}
	stored.Name = key.Name
	stored.Description = key.Description
	stored.Category = key.Category
	stored.Service = key.Service
	stored.UpdatedAt = key.UpdatedAt
	return nil
}

func (r *memoryRepository) TouchLastUsed(_ context.Context, ownerID, id uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.get(ownerID, id)
	if !ok {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	stored.LastUsedAt = &usedAt
	return nil
}

func (r *memoryRepository) Deactivate(_ context.Context, ownerID, id uuid.UUID, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.get(ownerID, id)
	if !ok {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	stored.IsActive = false
	stored.UpdatedAt = deletedAt
	return nil
}

func (r *memoryRepository) CountByCategory(
	_ context.Context,
	ownerID uuid.UUID,
) ([]apikeyDomain.CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[apikeyDomain.Category]int64{}
	for _, key := range r.keys {
		if key.OwnerID == ownerID && key.IsActive {
			counts[key.Category]++
		}
	}

	result := make([]apikeyDomain.CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, apikeyDomain.CategoryCount{Category: category, Count: count})
	}
	return result, nil
}

// stored returns the raw record including inactive ones, for assertions and tampering.
func (r *memoryRepository) stored(id uuid.UUID) *apikeyDomain.APIKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[id]
}
