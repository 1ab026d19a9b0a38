package usecase

import (
	"context"
	"strings"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
	authService "github.com/allisson/apivault/internal/auth/service"
	apperrors "github.com/allisson/apivault/internal/errors"
	userDomain "github.com/allisson/apivault/internal/user/domain"
)

// accessGate implements AccessGate on top of a TokenService and the user store.
type accessGate struct {
	tokenService authService.TokenService
	users        UserLookup
}

// Authenticate parses the token, then requires the subject to be an existing active account.
func (g *accessGate) Authenticate(ctx context.Context, token string) (*authDomain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, authDomain.ErrMissingToken
	}

	userID, err := g.tokenService.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		// A token for a deleted account is just an invalid token.
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, userDomain.ErrUserInactive
	}

	return &authDomain.Principal{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}

// NewAccessGate creates a new AccessGate.
func NewAccessGate(tokenService authService.TokenService, users UserLookup) AccessGate {
	return &accessGate{
		tokenService: tokenService,
		users:        users,
	}
}
