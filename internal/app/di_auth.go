package app

import (
	"fmt"
	"sync"

	authService "github.com/allisson/apivault/internal/auth/service"
	authUseCase "github.com/allisson/apivault/internal/auth/usecase"
)

type authComponents struct {
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	accessGate      authUseCase.AccessGate

	passwordServiceInit sync.Once
	tokenServiceInit    sync.Once
	accessGateInit      sync.Once
}

// PasswordService returns the service hashing user passwords.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	err := c.lazy(&c.auth.passwordServiceInit, "passwordService", func() error {
		service, err := authService.NewPasswordService()
		if err != nil {
			return fmt.Errorf("failed to create password service: %w", err)
		}
		c.auth.passwordService = service
		return nil
	})
	return c.auth.passwordService, err
}

// TokenService returns the JWT service issuing and verifying bearer tokens.
func (c *Container) TokenService() (authService.TokenService, error) {
	err := c.lazy(&c.auth.tokenServiceInit, "tokenService", func() error {
		service, err := authService.NewJWTTokenService(
			c.config.JWTSecret,
			c.config.JWTIssuer,
			c.config.AuthTokenExpiration,
		)
		if err != nil {
			return fmt.Errorf("failed to create token service: %w", err)
		}
		c.auth.tokenService = service
		return nil
	})
	return c.auth.tokenService, err
}

// AccessGate returns the gate resolving bearer tokens into principals.
func (c *Container) AccessGate() (authUseCase.AccessGate, error) {
	err := c.lazy(&c.auth.accessGateInit, "accessGate", func() error {
		tokenService, err := c.TokenService()
		if err != nil {
			return err
		}
		userRepo, err := c.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository for access gate: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return err
		}

		gate := authUseCase.NewAccessGate(tokenService, userRepo)
		if c.config.MetricsEnabled {
			gate = authUseCase.NewAccessGateWithMetrics(gate, businessMetrics)
		}
		c.auth.accessGate = gate
		return nil
	})
	return c.auth.accessGate, err
}
