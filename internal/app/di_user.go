package app

import (
	"fmt"
	"sync"

	"github.com/allisson/apivault/internal/database"
	userHTTP "github.com/allisson/apivault/internal/user/http"
	userRepository "github.com/allisson/apivault/internal/user/repository"
	userUseCase "github.com/allisson/apivault/internal/user/usecase"
)

type userComponents struct {
	repository userUseCase.UserRepository
	useCase    userUseCase.UserUseCase
	handler    *userHTTP.UserHandler

	repositoryInit sync.Once
	useCaseInit    sync.Once
	handlerInit    sync.Once
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	err := c.lazy(&c.users.repositoryInit, "userRepository", func() error {
		repo, err := c.initUserRepository()
		if err != nil {
			return err
		}
		c.users.repository = repo
		return nil
	})
	return c.users.repository, err
}

// UserUseCase returns the registration and login use case.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	err := c.lazy(&c.users.useCaseInit, "userUseCase", func() error {
		useCase, err := c.initUserUseCase()
		if err != nil {
			return err
		}
		c.users.useCase = useCase
		return nil
	})
	return c.users.useCase, err
}

// UserHandler returns the HTTP handler for the auth routes.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	err := c.lazy(&c.users.handlerInit, "userHandler", func() error {
		useCase, err := c.UserUseCase()
		if err != nil {
			return fmt.Errorf("failed to get user use case for user handler: %w", err)
		}
		c.users.handler = userHTTP.NewUserHandler(useCase, c.Logger())
		return nil
	})
	return c.users.handler, err
}

func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	switch c.config.DBDriver {
	case database.DriverMongoDB:
		db, err := c.MongoDatabase()
		if err != nil {
			return nil, fmt.Errorf("failed to get mongodb for user repository: %w", err)
		}
		return userRepository.NewMongoUserRepository(db), nil
	case database.DriverMySQL, database.DriverPostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for user repository: %w", err)
		}
		if c.config.DBDriver == database.DriverMySQL {
			return userRepository.NewMySQLUserRepository(db), nil
		}
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserUseCase() (userUseCase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}
	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, err
	}
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, err
	}

	useCase := userUseCase.NewUserUseCase(txManager, userRepo, passwordService, tokenService)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		return userUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}
