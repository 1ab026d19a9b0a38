// Package http provides the gin middleware that authenticates and throttles API requests.
package http

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if present, or (nil, false) if no principal was set.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}

// OwnerID returns the id every vault operation of this request is scoped to.
func OwnerID(ctx context.Context) (uuid.UUID, bool) {
	principal, ok := GetPrincipal(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return principal.UserID, true
}
