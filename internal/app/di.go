// Package app provides the dependency injection container that assembles the vault.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/allisson/apivault/internal/config"
	"github.com/allisson/apivault/internal/database"
	"github.com/allisson/apivault/internal/http"
	"github.com/allisson/apivault/internal/metrics"
)

// Container holds all application dependencies. Components are created on first access and
// cached, including their initialization error.
type Container struct {
	config *config.Config

	// Infrastructure
	logger        *slog.Logger
	db            *sql.DB
	mongoClient   *mongo.Client
	txManager     database.TxManager
	metrics       *metrics.Provider
	business      metrics.BusinessMetrics
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Crypto and auth
	crypto cryptoComponents
	auth   authComponents

	// Modules
	users   userComponents
	apiKeys apiKeyComponents

	mu                sync.Mutex
	loggerInit        sync.Once
	dbInit            sync.Once
	mongoInit         sync.Once
	txManagerInit     sync.Once
	metricsInit       sync.Once
	businessInit      sync.Once
	httpServerInit    sync.Once
	metricsServerInit sync.Once
	initErrors        map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// lazy runs init once and returns the error it produced, on this and every later call.
func (c *Container) lazy(once *sync.Once, key string, init func() error) error {
	once.Do(func() {
		if err := init(); err != nil {
			c.mu.Lock()
			c.initErrors[key] = err
			c.mu.Unlock()
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[key]
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured for the log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// IsMongo reports whether the configured store is MongoDB.
func (c *Container) IsMongo() bool {
	return c.config.DBDriver == database.DriverMongoDB
}

// DB returns the SQL connection pool. It fails for the MongoDB driver.
func (c *Container) DB() (*sql.DB, error) {
	err := c.lazy(&c.dbInit, "db", func() error {
		if c.IsMongo() {
			return fmt.Errorf("no sql connection for driver %q", c.config.DBDriver)
		}
		db, err := database.Connect(c.databaseConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.db = db
		return nil
	})
	return c.db, err
}

// MongoDatabase returns the configured MongoDB database. It fails for the SQL drivers.
func (c *Container) MongoDatabase() (*mongo.Database, error) {
	err := c.lazy(&c.mongoInit, "mongo", func() error {
		if !c.IsMongo() {
			return fmt.Errorf("no mongodb connection for driver %q", c.config.DBDriver)
		}
		client, err := database.ConnectMongo(context.Background(), c.databaseConfig())
		if err != nil {
			return err
		}
		c.mongoClient = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.mongoClient.Database(c.config.DBName), nil
}

// TxManager returns the transaction manager for the configured store.
func (c *Container) TxManager() (database.TxManager, error) {
	err := c.lazy(&c.txManagerInit, "txManager", func() error {
		if c.IsMongo() {
			if _, err := c.MongoDatabase(); err != nil {
				return fmt.Errorf("failed to get mongodb for tx manager: %w", err)
			}
			if c.config.DBMongoTransactions {
				c.txManager = database.NewMongoTxManager(c.mongoClient)
			} else {
				c.txManager = database.NewDirectTxManager()
			}
			return nil
		}

		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		c.txManager = database.NewTxManager(db)
		return nil
	})
	return c.txManager, err
}

// DatabaseHealthCheck returns the readiness probe for the configured store.
func (c *Container) DatabaseHealthCheck() (http.HealthCheck, error) {
	if c.IsMongo() {
		if _, err := c.MongoDatabase(); err != nil {
			return nil, err
		}
		client := c.mongoClient
		return func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	return db.PingContext, nil
}

// MetricsProvider returns the Prometheus-backed meter provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	err := c.lazy(&c.metricsInit, "metrics", func() error {
		provider, err := metrics.NewProvider()
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		c.metrics = provider
		return nil
	})
	return c.metrics, err
}

// BusinessMetrics returns the use case metrics, or a no-op implementation when metrics are
// disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.lazy(&c.businessInit, "businessMetrics", func() error {
		if !c.config.MetricsEnabled {
			c.business = metrics.NewNoOpBusinessMetrics()
			return nil
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		c.business, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		return err
	})
	return c.business, err
}

// HTTPServer returns the API server with its router configured. ctx bounds the background work
// started by the router (rate limiter cleanup) and is only used on the first call.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	err := c.lazy(&c.httpServerInit, "httpServer", func() error {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			return err
		}
		c.httpServer = server
		return nil
	})
	return c.httpServer, err
}

// MetricsServer returns the server exposing /metrics.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	err := c.lazy(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
		return nil
	})
	return c.metricsServer, err
}

// Shutdown releases every initialized resource. Servers stop first so in-flight requests can
// still reach the database.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if c.metrics != nil {
		if err := c.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if c.mongoClient != nil {
		if err := c.mongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) databaseConfig() database.Config {
	return database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	}
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	dbHealth, err := c.DatabaseHealthCheck()
	if err != nil {
		return nil, fmt.Errorf("failed to get database health check: %w", err)
	}
	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, err
	}
	apiKeyHandler, err := c.APIKeyHandler()
	if err != nil {
		return nil, err
	}
	gate, err := c.AccessGate()
	if err != nil {
		return nil, err
	}

	deps := http.RouterDeps{
		Config:        c.config,
		AccessGate:    gate,
		UserHandler:   userHandler,
		APIKeyHandler: apiKeyHandler,
	}
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		deps.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(dbHealth, c.config.ServerHost, c.config.ServerPort, c.Logger())
	if err := server.SetupRouter(ctx, deps); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	return server, nil
}
