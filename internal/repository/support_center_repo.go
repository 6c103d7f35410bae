package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/FranOrder/complaint-backend/internal/model"

	"github.com/jackc/pgx/v5"
)

// SupportCenterRepository defines operations for support center data
type SupportCenterRepository interface {
	Create(ctx context.Context, center *model.SupportCenter) error
	FindByID(ctx context.Context, id int64) (*model.SupportCenter, error)
	FindAll(ctx context.Context, activeOnly bool) ([]model.SupportCenter, error)
	Update(ctx context.Context, center *model.SupportCenter) error
	Delete(ctx context.Context, id int64) error
}

type supportCenterRepository struct {
	db Querier
}

// NewSupportCenterRepository creates a new SupportCenterRepository
func NewSupportCenterRepository(db Querier) SupportCenterRepository {
	return &supportCenterRepository{db: db}
}

const centerColumns = `id, name, street, district, phone, email, schedule, is_active, created_by, created_at, updated_at`

func scanCenter(row pgx.Row, sc *model.SupportCenter) error {
	return row.Scan(&sc.ID, &sc.Name, &sc.Street, &sc.District, &sc.Phone, &sc.Email,
		&sc.Schedule, &sc.IsActive, &sc.CreatedBy, &sc.CreatedAt, &sc.UpdatedAt)
}

// Create inserts a new support center into the database
func (r *supportCenterRepository) Create(ctx context.Context, sc *model.SupportCenter) error {
	sql := `INSERT INTO support_centers (name, street, district, phone, email, schedule, is_active, created_by, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, sc.Name, sc.Street, sc.District, sc.Phone, sc.Email,
		sc.Schedule, sc.IsActive, sc.CreatedBy, sc.CreatedAt, sc.UpdatedAt).
		Scan(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create support center: %w", err)
	}
	return nil
}

// FindByID retrieves a support center by its ID
func (r *supportCenterRepository) FindByID(ctx context.Context, id int64) (*model.SupportCenter, error) {
	sc := &model.SupportCenter{}
	sql := `SELECT ` + centerColumns + ` FROM support_centers WHERE id = $1`
	err := scanCenter(r.db.QueryRow(ctx, sql, id), sc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find support center by ID: %w", err)
	}
	return sc, nil
}

// FindAll retrieves support centers, optionally limited to active ones.
// Zone/district narrowing runs in the listing pipeline.
func (r *supportCenterRepository) FindAll(ctx context.Context, activeOnly bool) ([]model.SupportCenter, error) {
	sql := `SELECT ` + centerColumns + ` FROM support_centers`
	if activeOnly {
		sql += ` WHERE is_active = TRUE`
	}
	sql += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query support centers: %w", err)
	}
	defer rows.Close()

	var centers []model.SupportCenter
	for rows.Next() {
		var sc model.SupportCenter
		if err := scanCenter(rows, &sc); err != nil {
			return nil, fmt.Errorf("failed to scan support center row: %w", err)
		}
		centers = append(centers, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating support center rows: %w", err)
	}
	return centers, nil
}

// Update modifies an existing support center
func (r *supportCenterRepository) Update(ctx context.Context, sc *model.SupportCenter) error {
	sql := `UPDATE support_centers
            SET name = $1, street = $2, district = $3, phone = $4, email = $5, schedule = $6, is_active = $7, updated_at = NOW()
            WHERE id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, sc.Name, sc.Street, sc.District, sc.Phone, sc.Email,
		sc.Schedule, sc.IsActive, sc.ID).Scan(&sc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("support center not found for update")
		}
		return fmt.Errorf("failed to update support center: %w", err)
	}
	return nil
}

// Delete removes a support center from the database
func (r *supportCenterRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM support_centers WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete support center: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("support center not found for deletion")
	}
	return nil
}
