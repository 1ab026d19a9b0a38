package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// AuthRateLimitMiddleware enforces a per-IP token bucket on the unauthenticated register and
// login routes to slow credential stuffing. The client IP comes from c.ClientIP, which honours
// the engine's trusted proxy settings.
func AuthRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore[string](rps, burst)
	go store.cleanupStale(ctx, limiterCleanupInterval)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter := store.allow(clientIP)
		if !allowed {
			logger.Debug("auth rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			tooManyRequests(c, retryAfter, "Too many attempts from this IP. Please retry after the specified delay.")
			return
		}

		c.Next()
	}
}
