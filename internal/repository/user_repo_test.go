package repository

import (
	"context"
	"testing"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func userRow(u model.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone",
		"password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(u.ID, u.FirstName, u.LastName, u.Email, u.Phone,
		u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	user := &model.User{
		FirstName: "María", LastName: "López", Email: "maria@example.com",
		Phone: "987654321", PasswordHash: "hash", Role: model.RoleVictim,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.FirstName, user.LastName, user.Email, user.Phone,
			user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(5))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, 5, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	stored := model.User{
		ID: 3, FirstName: "María", LastName: "López", Email: "maria@example.com",
		Phone: "987654321", PasswordHash: "hash", Role: model.RoleVictim,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
		WithArgs(stored.Email).
		WillReturnRows(userRow(stored))

	user, err := repo.FindByEmail(context.Background(), stored.Email)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, stored.ID, user.ID)
	assert.Equal(t, stored.Role, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "phone",
			"password_hash", "role", "is_active", "created_at", "updated_at",
		}))

	// No rows means (nil, nil): absence is decided by the service layer.
	user, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActive(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET is_active`).
		WithArgs(false, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetActive(context.Background(), 3, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActive_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET is_active`).
		WithArgs(true, 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetActive(context.Background(), 99, true)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
