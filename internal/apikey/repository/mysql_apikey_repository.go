package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	"github.com/allisson/apivault/internal/database"
	apperrors "github.com/allisson/apivault/internal/errors"
)

const mysqlDuplicateEntry = 1062

// MySQLAPIKeyRepository implements APIKey persistence for MySQL databases. UUIDs are stored as
// BINARY(16); name uniqueness is enforced through the generated active_name column.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository instance.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}

const mysqlAPIKeyColumns = `id, owner_id, name, description, category, service, ciphertext, iv,
			  is_active, last_used_at, created_at, updated_at`

// Create inserts a new API key.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO api_keys (` + mysqlAPIKeyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, ownerID, err := marshalIDs(key.ID, key.OwnerID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		ownerID,
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
		if isMySQLUniqueViolation(err) {
			return apikeyDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetActive retrieves an active key by id for its owner.
func (m *MySQLAPIKeyRepository) GetActive(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlAPIKeyColumns + `
			  FROM api_keys
			  WHERE id = ? AND owner_id = ? AND is_active = TRUE`

	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return nil, err
	}

	key, err := scanMySQLAPIKey(querier.QueryRowContext(ctx, query, idBytes, ownerBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return key, nil
}

// ExistsActiveName reports whether the owner has another active key with this name.
func (m *MySQLAPIKeyRepository) ExistsActiveName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM api_keys
				WHERE owner_id = ? AND active_name = ? AND id <> ?
			  )`

	excludeBytes, ownerBytes, err := marshalIDs(excludeID, ownerID)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := querier.QueryRowContext(ctx, query, ownerBytes, name, excludeBytes).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key name")
	}
	return exists, nil
}

// List returns the owner's active keys ordered newest first.
func (m *MySQLAPIKeyRepository) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT ` + mysqlAPIKeyColumns + `
			  FROM api_keys
			  WHERE owner_id = ? AND is_active = TRUE`
	args := []any{ownerBytes}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query += " AND (LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(service) LIKE LOWER(?))"
		args = append(args, pattern, pattern, pattern)
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
		key, err := scanMySQLAPIKey(rows)
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
func (m *MySQLAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys
			  SET name = ?, description = ?, category = ?, service = ?, updated_at = ?
			  WHERE id = ? AND owner_id = ? AND is_active = TRUE`

	id, ownerID, err := marshalIDs(key.ID, key.OwnerID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		key.Name,
		key.Description,
		string(key.Category),
		key.Service,
		key.UpdatedAt,
		id,
		ownerID,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return apikeyDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to update api key")
	}
	return requireAffected(result, "failed to update api key")
}

// TouchLastUsed stamps last_used_at without changing updated_at.
func (m *MySQLAPIKeyRepository) TouchLastUsed(
	ctx context.Context,
	ownerID, id uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys SET last_used_at = ?
			  WHERE id = ? AND owner_id = ? AND is_active = TRUE`

	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, usedAt, idBytes, ownerBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch api key")
	}
	return requireAffected(result, "failed to touch api key")
}

// Deactivate soft-deletes the key in a single conditional update.
func (m *MySQLAPIKeyRepository) Deactivate(
	ctx context.Context,
	ownerID, id uuid.UUID,
	deletedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys SET is_active = FALSE, updated_at = ?
			  WHERE id = ? AND owner_id = ? AND is_active = TRUE`

	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, deletedAt, idBytes, ownerBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return requireAffected(result, "failed to delete api key")
}

// CountByCategory groups the owner's active keys by category.
func (m *MySQLAPIKeyRepository) CountByCategory(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]apikeyDomain.CategoryCount, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT category, COUNT(*) AS total
			  FROM api_keys
			  WHERE owner_id = ? AND is_active = TRUE
			  GROUP BY category
			  ORDER BY total DESC, category ASC`

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	rows, err := querier.QueryContext(ctx, query, ownerBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanCategoryCounts(rows)
}

func scanMySQLAPIKey(row rowScanner) (*apikeyDomain.APIKey, error) {
	var key apikeyDomain.APIKey
	var id, ownerID []byte
	var category string
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&id,
		&ownerID,
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

	if err := key.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
	}
	if err := key.OwnerID.UnmarshalBinary(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}

	key.Category = apikeyDomain.Category(category)
	if lastUsedAt.Valid {
		usedAt := lastUsedAt.Time.UTC()
		key.LastUsedAt = &usedAt
	}
	return &key, nil
}

func marshalIDs(id, ownerID uuid.UUID) ([]byte, []byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal api key id")
	}
	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal owner id")
	}
	return idBytes, ownerBytes, nil
}

func isMySQLUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
