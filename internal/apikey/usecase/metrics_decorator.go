package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	"github.com/allisson/apivault/internal/metrics"
)

const metricsDomain = "apikeys"

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *apiKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, a.metrics, metricsDomain, operation, start, err)
}

// Create records metrics for key creation.
func (a *apiKeyUseCaseWithMetrics) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	key, err := a.next.Create(ctx, ownerID, input)
	a.record(ctx, "api_key_create", start, err)
	return key, err
}

// List records metrics for key listing.
func (a *apiKeyUseCaseWithMetrics) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	keys, err := a.next.List(ctx, ownerID, filter)
	a.record(ctx, "api_key_list", start, err)
	return keys, err
}

// Reveal records metrics for key decryption.
func (a *apiKeyUseCaseWithMetrics) Reveal(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	key, err := a.next.Reveal(ctx, ownerID, id)
	a.record(ctx, "api_key_reveal", start, err)
	return key, err
}

// Update records metrics for metadata updates.
func (a *apiKeyUseCaseWithMetrics) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input apikeyDomain.UpdateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	key, err := a.next.Update(ctx, ownerID, id, input)
	a.record(ctx, "api_key_update", start, err)
	return key, err
}

// SoftDelete records metrics for key deletion.
func (a *apiKeyUseCaseWithMetrics) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	start := time.Now()
	err := a.next.SoftDelete(ctx, ownerID, id)
	a.record(ctx, "api_key_delete", start, err)
	return err
}

// CategoryStats records metrics for the category breakdown.
func (a *apiKeyUseCaseWithMetrics) CategoryStats(
	ctx context.Context,
	ownerID uuid.UUID,
) (*apikeyDomain.CategoryStats, error) {
	start := time.Now()
	stats, err := a.next.CategoryStats(ctx, ownerID)
	a.record(ctx, "api_key_stats", start, err)
	return stats, err
}
