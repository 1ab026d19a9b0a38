// Package http provides the gin API server, the metrics server and their middleware.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	apikeyHTTP "github.com/allisson/apivault/internal/apikey/http"
	authHTTP "github.com/allisson/apivault/internal/auth/http"
	authUseCase "github.com/allisson/apivault/internal/auth/usecase"
	"github.com/allisson/apivault/internal/config"
	"github.com/allisson/apivault/internal/metrics"
	userHTTP "github.com/allisson/apivault/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Server is the API server.
type Server struct {
	server   *http.Server
	router   *gin.Engine
	logger   *slog.Logger
	dbHealth HealthCheck
}

// NewServer creates the API server. dbHealth backs the /ready endpoint; a nil check always
// reports the database as unavailable.
func NewServer(dbHealth HealthCheck, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger:   logger,
		dbHealth: dbHealth,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// RouterDeps are the handlers and settings SetupRouter wires together.
type RouterDeps struct {
	Config        *config.Config
	AccessGate    authUseCase.AccessGate
	UserHandler   *userHTTP.UserHandler
	APIKeyHandler *apikeyHTTP.APIKeyHandler
	// MeterProvider enables HTTP metrics when non-nil.
	MeterProvider metric.MeterProvider
}

// SetupRouter builds the gin engine. ctx bounds the lifetime of the rate limiter cleanup
// goroutines.
func (s *Server) SetupRouter(ctx context.Context, deps RouterDeps) error {
	cfg := deps.Config
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(SecurityHeadersMiddleware())
	router.Use(BodyLimitMiddleware(cfg.MaxRequestBodyBytes))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MeterProvider != nil {
		httpMetrics, err := metrics.NewHTTPMetricsMiddleware(deps.MeterProvider, cfg.MetricsNamespace)
		if err != nil {
			return err
		}
		router.Use(httpMetrics)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Route not found"})
	})

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authenticate := authHTTP.AuthenticationMiddleware(deps.AccessGate, s.logger)
	v1 := router.Group("/v1")

	authRoutes := v1.Group("/auth")
	{
		credentials := authRoutes.Group("")
		if cfg.RateLimitAuthEnabled {
			credentials.Use(authHTTP.AuthRateLimitMiddleware(
				ctx, cfg.RateLimitAuthRequestsPerSec, cfg.RateLimitAuthBurst, s.logger,
			))
		}
		credentials.POST("/register", deps.UserHandler.RegisterHandler)
		credentials.POST("/login", deps.UserHandler.LoginHandler)

		authRoutes.GET("/me", authenticate, deps.UserHandler.MeHandler)
	}

	apiKeys := v1.Group("/api-keys", authenticate)
	if cfg.RateLimitEnabled {
		apiKeys.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		apiKeys.GET("", deps.APIKeyHandler.ListHandler)
		apiKeys.POST("", deps.APIKeyHandler.CreateHandler)
		apiKeys.GET("/stats/categories", deps.APIKeyHandler.CategoryStatsHandler)
		apiKeys.GET("/:id", deps.APIKeyHandler.RevealHandler)
		apiKeys.PUT("/:id", deps.APIKeyHandler.UpdateHandler)
		apiKeys.DELETE("/:id", deps.APIKeyHandler.DeleteHandler)
	}

	s.router = router
	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. SetupRouter must have been called.
func (s *Server) Start(_ context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	database := "ok"
	if s.dbHealth == nil {
		database = "error"
	} else if err := s.dbHealth(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		database = "error"
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}
