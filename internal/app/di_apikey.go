package app

import (
	"context"
	"fmt"
	"sync"

	apikeyHTTP "github.com/allisson/apivault/internal/apikey/http"
	apikeyRepository "github.com/allisson/apivault/internal/apikey/repository"
	apikeyUseCase "github.com/allisson/apivault/internal/apikey/usecase"
	"github.com/allisson/apivault/internal/database"
	userRepository "github.com/allisson/apivault/internal/user/repository"
)

type apiKeyComponents struct {
	repository apikeyUseCase.APIKeyRepository
	useCase    apikeyUseCase.APIKeyUseCase
	handler    *apikeyHTTP.APIKeyHandler

	repositoryInit sync.Once
	useCaseInit    sync.Once
	handlerInit    sync.Once
}

// APIKeyRepository returns the API key store for the configured driver.
func (c *Container) APIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	err := c.lazy(&c.apiKeys.repositoryInit, "apiKeyRepository", func() error {
		repo, err := c.initAPIKeyRepository()
		if err != nil {
			return err
		}
		c.apiKeys.repository = repo
		return nil
	})
	return c.apiKeys.repository, err
}

// APIKeyUseCase returns the vault service.
func (c *Container) APIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	err := c.lazy(&c.apiKeys.useCaseInit, "apiKeyUseCase", func() error {
		useCase, err := c.initAPIKeyUseCase()
		if err != nil {
			return err
		}
		c.apiKeys.useCase = useCase
		return nil
	})
	return c.apiKeys.useCase, err
}

// APIKeyHandler returns the HTTP handler for the vault routes.
func (c *Container) APIKeyHandler() (*apikeyHTTP.APIKeyHandler, error) {
	err := c.lazy(&c.apiKeys.handlerInit, "apiKeyHandler", func() error {
		useCase, err := c.APIKeyUseCase()
		if err != nil {
			return fmt.Errorf("failed to get api key use case for api key handler: %w", err)
		}
		c.apiKeys.handler = apikeyHTTP.NewAPIKeyHandler(useCase, c.Logger())
		return nil
	})
	return c.apiKeys.handler, err
}

// EnsureMongoIndexes creates the MongoDB collection indexes, including the unique indexes the
// stores rely on for conflict detection. It is idempotent.
func (c *Container) EnsureMongoIndexes(ctx context.Context) error {
	db, err := c.MongoDatabase()
	if err != nil {
		return err
	}
	if err := userRepository.NewMongoUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return apikeyRepository.NewMongoAPIKeyRepository(db).EnsureIndexes(ctx)
}

func (c *Container) initAPIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	switch c.config.DBDriver {
	case database.DriverMongoDB:
		db, err := c.MongoDatabase()
		if err != nil {
			return nil, fmt.Errorf("failed to get mongodb for api key repository: %w", err)
		}
		return apikeyRepository.NewMongoAPIKeyRepository(db), nil
	case database.DriverMySQL, database.DriverPostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
		}
		if c.config.DBDriver == database.DriverMySQL {
			return apikeyRepository.NewMySQLAPIKeyRepository(db), nil
		}
		return apikeyRepository.NewPostgreSQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAPIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}
	repo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}
	engine, err := c.EncryptionEngine()
	if err != nil {
		return nil, err
	}

	useCase := apikeyUseCase.NewAPIKeyUseCase(txManager, repo, engine)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
		}
		return apikeyUseCase.NewAPIKeyUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}
