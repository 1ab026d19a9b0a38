package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/apivault/internal/auth/domain"
	authUseCase "github.com/allisson/apivault/internal/auth/usecase"
	"github.com/allisson/apivault/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware authenticates the request with the Bearer token in the Authorization
// header (the scheme is matched case-insensitively) and stores the principal in the request
// context for GetPrincipal and OwnerID.
//
// Every failure is answered with 401 and aborts the chain.
func AuthenticationMiddleware(gate authUseCase.AccessGate, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, authDomain.ErrMissingToken, logger)
			c.Abort()
			return
		}

		principal, err := gate.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		logger.Debug("authentication successful", slog.String("user_id", principal.UserID.String()))

		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
