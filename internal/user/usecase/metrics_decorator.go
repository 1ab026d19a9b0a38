package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/apivault/internal/metrics"
	"github.com/allisson/apivault/internal/user/domain"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, u.metrics, "users", operation, start, err)
}

// Register records metrics for account registration.
func (u *userUseCaseWithMetrics) Register(
	ctx context.Context,
	input domain.RegisterUserInput,
) (*domain.AuthResult, error) {
	start := time.Now()
	result, err := u.next.Register(ctx, input)
	u.record(ctx, "user_register", start, err)
	return result, err
}

// Login records metrics for logins.
func (u *userUseCaseWithMetrics) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	start := time.Now()
	result, err := u.next.Login(ctx, input)
	u.record(ctx, "user_login", start, err)
	return result, err
}

// GetByID records metrics for account lookups.
func (u *userUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetByID(ctx, id)
	u.record(ctx, "user_get", start, err)
	return user, err
}
