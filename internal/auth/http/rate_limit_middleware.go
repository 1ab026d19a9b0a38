package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/apivault/internal/errors"
	"github.com/allisson/apivault/internal/httputil"
)

// RateLimitMiddleware enforces a per-owner token bucket on authenticated routes. It must run
// after AuthenticationMiddleware. The idle-limiter cleanup goroutine stops when ctx is done.
//
// Rejected requests get 429 with a Retry-After header.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore[uuid.UUID](rps, burst)
	go store.cleanupStale(ctx, limiterCleanupInterval)

	return func(c *gin.Context) {
		ownerID, ok := OwnerID(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		allowed, retryAfter := store.allow(ownerID)
		if !allowed {
			logger.Debug("rate limit exceeded",
				slog.String("user_id", ownerID.String()),
				slog.Int("retry_after", retryAfter))

			tooManyRequests(c, retryAfter, "Too many requests. Please retry after the specified delay.")
			return
		}

		c.Next()
	}
}

func tooManyRequests(c *gin.Context, retryAfter int, message string) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": message,
	})
}
