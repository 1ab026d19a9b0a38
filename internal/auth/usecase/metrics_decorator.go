package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
	"github.com/allisson/apivault/internal/metrics"
)

// accessGateWithMetrics decorates AccessGate with metrics instrumentation.
type accessGateWithMetrics struct {
	next    AccessGate
	metrics metrics.BusinessMetrics
}

// NewAccessGateWithMetrics wraps an AccessGate with metrics recording.
func NewAccessGateWithMetrics(gate AccessGate, m metrics.BusinessMetrics) AccessGate {
	return &accessGateWithMetrics{
		next:    gate,
		metrics: m,
	}
}

// Authenticate records metrics for token authentication.
func (a *accessGateWithMetrics) Authenticate(ctx context.Context, token string) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, token)

	metrics.Observe(ctx, a.metrics, "auth", "authenticate", start, err)

	return principal, err
}
