// Package repository implements API key persistence for PostgreSQL, MySQL and MongoDB.
// Every query is scoped by owner and by is_active; uniqueness of an owner's active key names
// is enforced by the store itself and surfaced as domain.ErrDuplicateName.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	"github.com/allisson/apivault/internal/database"
	apperrors "github.com/allisson/apivault/internal/errors"
)

const postgresUniqueViolation = "23505"

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL databases.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository instance.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}

const postgresAPIKeyColumns = `id, owner_id, name, description, category, service, ciphertext, iv,
			  is_active, last_used_at, created_at, updated_at`

// Create inserts a new API key.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (` + postgresAPIKeyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(
		ctx,
		query,
		key.ID,
		key.OwnerID,
		key.Name,
		key.Description,
		string(key.Category),
		key.Service,
		key.Ciphertext,
		key.IV,
		key.IsActive,
		key.LastUsedAt,
		key.CreatedAt,
		key.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apikeyDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetActive retrieves an active key by id for its owner.
func (p *PostgreSQLAPIKeyRepository) GetActive(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresAPIKeyColumns + `
			  FROM api_keys
			  WHERE id = $1 AND owner_id = $2 AND is_active = TRUE`

	key, err := scanPostgreSQLAPIKey(querier.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return key, nil
}

// ExistsActiveName reports whether the owner has another active key with this name.
func (p *PostgreSQLAPIKeyRepository) ExistsActiveName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM api_keys
				WHERE owner_id = $1 AND name = $2 AND is_active = TRUE AND id <> $3
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, ownerID, name, excludeID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key name")
	}
	return exists, nil
}

// List returns the owner's active keys ordered newest first.
func (p *PostgreSQLAPIKeyRepository) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresAPIKeyColumns + `
			  FROM api_keys
			  WHERE owner_id = $1 AND is_active = TRUE`
	args := []any{ownerID}

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR service ILIKE $%d)", n, n, n)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		key, err := scanPostgreSQLAPIKey(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return keys, nil
}

// Update writes the key's metadata columns.
func (p *PostgreSQLAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys
			  SET name = $1, description = $2, category = $3, service = $4, updated_at = $5
			  WHERE id = $6 AND owner_id = $7 AND is_active = TRUE`

	result, err := querier.ExecContext(
		ctx,
		query,
		key.Name,
		key.Description,
		string(key.Category),
		key.Service,
		key.UpdatedAt,
		key.ID,
		key.OwnerID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apikeyDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to update api key")
	}
	return requireAffected(result, "failed to update api key")
}

// TouchLastUsed stamps last_used_at without changing updated_at.
func (p *PostgreSQLAPIKeyRepository) TouchLastUsed(
	ctx context.Context,
	ownerID, id uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET last_used_at = $1
			  WHERE id = $2 AND owner_id = $3 AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, usedAt, id, ownerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch api key")
	}
	return requireAffected(result, "failed to touch api key")
}

// Deactivate soft-deletes the key in a single conditional update.
func (p *PostgreSQLAPIKeyRepository) Deactivate(
	ctx context.Context,
	ownerID, id uuid.UUID,
	deletedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys SET is_active = FALSE, updated_at = $1
			  WHERE id = $2 AND owner_id = $3 AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, deletedAt, id, ownerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return requireAffected(result, "failed to delete api key")
}

// CountByCategory groups the owner's active keys by category.
func (p *PostgreSQLAPIKeyRepository) CountByCategory(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]apikeyDomain.CategoryCount, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT category, COUNT(*)
			  FROM api_keys
			  WHERE owner_id = $1 AND is_active = TRUE
			  GROUP BY category
			  ORDER BY COUNT(*) DESC, category ASC`

	rows, err := querier.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanCategoryCounts(rows)
}

func scanPostgreSQLAPIKey(row rowScanner) (*apikeyDomain.APIKey, error) {
	var key apikeyDomain.APIKey
	var category string
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&key.ID,
		&key.OwnerID,
		&key.Name,
		&key.Description,
		&category,
		&key.Service,
		&key.Ciphertext,
		&key.IV,
		&key.IsActive,
		&lastUsedAt,
		&key.CreatedAt,
		&key.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	key.Category = apikeyDomain.Category(category)
	if lastUsedAt.Valid {
		usedAt := lastUsedAt.Time.UTC()
		key.LastUsedAt = &usedAt
	}
	return &key, nil
}

func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == postgresUniqueViolation
}
