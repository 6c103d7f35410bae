package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/FranOrder/complaint-backend/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	SetActive(ctx context.Context, id int, active bool) error
}

type userRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (first_name, last_name, email, phone, password_hash, role, is_active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.FirstName, user.LastName, user.Email, user.Phone,
		user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, email), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here; the service layer decides
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAll retrieves every user for the admin management listing. Filtering
// and pagination happen in memory, in the listing pipeline.
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateProfile updates the mutable profile fields (names and phone only).
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET first_name = $1, last_name = $2, phone = $3, updated_at = NOW()
            WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, user.FirstName, user.LastName, user.Phone, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user not found for profile update")
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// SetActive flips the account's active flag.
func (r *userRepository) SetActive(ctx context.Context, id int, active bool) error {
	sql := `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for active flag update")
	}
	return nil
}
