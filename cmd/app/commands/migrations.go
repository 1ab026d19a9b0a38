package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/apivault/internal/database"
)

// IndexEnsurer creates MongoDB indexes.
type IndexEnsurer interface {
	EnsureMongoIndexes(ctx context.Context) error
}

// RunMigrations applies pending SQL migrations from migrations/<dialect>. It returns nil when
// the schema is already current.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	sourceURL, databaseURL, err := migrationURLs(driver, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// RunMongoIndexes is the MongoDB counterpart of RunMigrations.
func RunMongoIndexes(ctx context.Context, ensurer IndexEnsurer, logger *slog.Logger) error {
	logger.Info("ensuring mongodb indexes")

	if err := ensurer.EnsureMongoIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	logger.Info("indexes ensured successfully")
	return nil
}

// migrationURLs maps a driver and application DSN to golang-migrate source and database URLs.
// MySQL DSNs in go-sql-driver form gain the mysql:// scheme migrate expects.
func migrationURLs(driver, connectionString string) (string, string, error) {
	switch driver {
	case database.DriverPostgres:
		return "file://migrations/postgresql", connectionString, nil
	case database.DriverMySQL:
		if !strings.HasPrefix(connectionString, "mysql://") {
			connectionString = "mysql://" + connectionString
		}
		return "file://migrations/mysql", connectionString, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
