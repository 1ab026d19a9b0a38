package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/apivault/internal/user/domain"
)

var userColumnNames = []string{"id", "name", "email", "password", "is_active", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "John Doe",
		Email:     "john@example.com",
		Password:  "$argon2id$hash",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID, user.Name, user.Email, user.Password, true, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, repo.Create(ctx, newTestUser()), domain.ErrUserAlreadyExists)
	})

	t.Run("Error_Other", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, newTestUser())
		assert.NotErrorIs(t, err, domain.ErrUserAlreadyExists)
		assert.Contains(t, err.Error(), "failed to create user")
	})
}

func TestPostgreSQLUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()

		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(user.ID).
			WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(
				user.ID.String(), user.Name, user.Email, user.Password, true, user.CreatedAt, user.UpdatedAt,
			))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(`FROM users WHERE id = \$1`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPostgreSQLUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()

		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs(user.Email).
			WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(
				user.ID.String(), user.Name, user.Email, user.Password, false, user.CreatedAt, user.UpdatedAt,
			))

		got, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.False(t, got.IsActive)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(`FROM users WHERE email = \$1`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Error_Query", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(`FROM users WHERE email = \$1`).WillReturnError(errors.New("timeout"))

		_, err := repo.GetByEmail(ctx, "john@example.com")
		assert.Contains(t, err.Error(), "failed to get user by email")
	})
}
