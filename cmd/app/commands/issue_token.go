package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authService "github.com/allisson/apivault/internal/auth/service"
	userDomain "github.com/allisson/apivault/internal/user/domain"
)

// UserFinder looks users up by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// IssueTokenOutput is the token printed by issue-token.
type IssueTokenOutput struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RunIssueToken issues a bearer token for an existing active user without their password.
// It is an operator tool for scripted access; the token has the configured lifetime.
func RunIssueToken(
	ctx context.Context,
	users UserFinder,
	tokenService authService.TokenService,
	logger *slog.Logger,
	email string,
	format string,
	streams IOTuple,
) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("--email is required")
	}

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return userDomain.ErrUserInactive
	}

	issued, err := tokenService.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("token issued",
		slog.String("user_id", user.ID.String()),
		slog.Time("expires_at", issued.ExpiresAt))

	output := IssueTokenOutput{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresAt: issued.ExpiresAt,
	}

	return writeOutput(streams.Writer, format, output, func(w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"User ID:    %s\nEmail:      %s\nExpires at: %s\nToken:      %s\n",
			output.UserID, output.Email, output.ExpiresAt.Format(time.RFC3339), output.Token,
		)
		return err
	})
}
