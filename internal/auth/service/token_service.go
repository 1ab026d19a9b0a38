// Package service issues and verifies the HS256 JWT bearer tokens used by the API.
package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
	apperrors "github.com/allisson/apivault/internal/errors"
)

// ErrJWTSecretRequired is returned when no signing secret is configured.
var ErrJWTSecretRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "jwt secret is required")

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	// Issue signs a token whose subject is userID.
	Issue(userID uuid.UUID) (*authDomain.IssuedToken, error)
	// Parse verifies token and returns its subject. Every failure wraps authDomain.ErrInvalidToken.
	Parse(token string) (uuid.UUID, error)
}

// jwtTokenService implements TokenService with HMAC-SHA256 JWTs.
type jwtTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService creates a TokenService signing with secret. Tokens carry iss=issuer and
// expire ttl after issuance.
func NewJWTTokenService(secret, issuer string, ttl time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, ErrJWTSecretRequired
	}
	if ttl <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token expiration must be positive")
	}

	return &jwtTokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue implements TokenService.
func (s *jwtTokenService) Issue(userID uuid.UUID) (*authDomain.IssuedToken, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Subject:   userID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &authDomain.IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse implements TokenService. Only HS256 is accepted, so a token re-signed with "none" or an
// asymmetric algorithm is rejected before the signature is checked.
func (s *jwtTokenService) Parse(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", authDomain.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid subject", authDomain.ErrInvalidToken)
	}

	return userID, nil
}
