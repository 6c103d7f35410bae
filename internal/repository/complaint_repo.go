package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"

	"github.com/jackc/pgx/v5"
)

// ComplaintRepository defines operations for complaint and evidence data.
// Complaints are never deleted.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	FindByID(ctx context.Context, id int64) (*model.Complaint, error)
	FindByVictim(ctx context.Context, victimID int) ([]model.Complaint, error)
	FindAll(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status string) error

	AddEvidence(ctx context.Context, evidence *model.Evidence) error
	ListEvidence(ctx context.Context, complaintID int64) ([]model.Evidence, error)
	FindEvidenceByID(ctx context.Context, id int64) (*model.Evidence, error)
}

type complaintRepository struct {
	db Querier
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db Querier) ComplaintRepository {
	return &complaintRepository{db: db}
}

// Create inserts a new complaint into the database
func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	sql := `INSERT INTO complaints (victim_id, description, violence_type, incident_date, incident_location,
                aggressor_full_name, aggressor_relationship, aggressor_additional_details, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.VictimID, c.Description, c.ViolenceType, c.IncidentDate, c.IncidentLocation,
		c.AggressorFullName, c.AggressorRelationship, c.AggressorAdditionalDetails, c.Status, c.CreatedAt, c.UpdatedAt).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

const complaintColumns = `c.id, c.victim_id, c.description, c.violence_type, c.incident_date, c.incident_location,
            c.aggressor_full_name, c.aggressor_relationship, c.aggressor_additional_details, c.status, c.created_at, c.updated_at,
            u.first_name || ' ' || u.last_name, u.email`

func scanComplaint(row pgx.Row, c *model.Complaint) error {
	return row.Scan(
		&c.ID, &c.VictimID, &c.Description, &c.ViolenceType, &c.IncidentDate, &c.IncidentLocation,
		&c.AggressorFullName, &c.AggressorRelationship, &c.AggressorAdditionalDetails, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &c.VictimName, &c.VictimEmail,
	)
}

// FindByID retrieves a complaint by its ID, including the victim display fields
func (r *complaintRepository) FindByID(ctx context.Context, id int64) (*model.Complaint, error) {
	c := &model.Complaint{}
	sql := `SELECT ` + complaintColumns + ` FROM complaints c JOIN users u ON c.victim_id = u.id WHERE c.id = $1`
	err := scanComplaint(r.db.QueryRow(ctx, sql, id), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find complaint by ID: %w", err)
	}
	return c, nil
}

// FindByVictim retrieves all complaints filed by one victim
func (r *complaintRepository) FindByVictim(ctx context.Context, victimID int) ([]model.Complaint, error) {
	sql := `SELECT ` + complaintColumns + ` FROM complaints c JOIN users u ON c.victim_id = u.id
            WHERE c.victim_id = $1 ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.db.Query(ctx, sql, victimID)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints by victim: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

// FindAll retrieves complaints for the admin listing with optional SQL-side
// narrowing. Free-text search and pagination stay in the listing pipeline;
// only the coarse filters hit the database.
func (r *complaintRepository) FindAll(ctx context.Context, filters model.ComplaintFilters) ([]model.Complaint, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + complaintColumns + ` FROM complaints c JOIN users u ON c.victim_id = u.id`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", argCount))
		args = append(args, filters.Status)
		argCount++
	}
	if filters.ViolenceType != "" {
		conditions = append(conditions, fmt.Sprintf("c.violence_type = $%d", argCount))
		args = append(args, filters.ViolenceType)
		argCount++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("c.created_at >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("c.created_at <= $%d", argCount))
		args = append(args, *filters.EndDate)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY c.created_at DESC, c.id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query all complaints: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

func collectComplaints(rows pgx.Rows) ([]model.Complaint, error) {
	var complaints []model.Complaint
	for rows.Next() {
		var c model.Complaint
		if err := scanComplaint(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan complaint row: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaint rows: %w", err)
	}
	return complaints, nil
}

// UpdateStatus moves a complaint to a new workflow status. The service layer
// owns the transition rules; this only persists the move.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	sql := `UPDATE complaints SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, sql, status, id).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("complaint not found for status update")
		}
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	return nil
}

// AddEvidence inserts an evidence row for an uploaded file
func (r *complaintRepository) AddEvidence(ctx context.Context, e *model.Evidence) error {
	sql := `INSERT INTO evidences (complaint_id, file_name, file_type, file_size, storage_key, uploaded_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, uploaded_at`
	err := r.db.QueryRow(ctx, sql, e.ComplaintID, e.FileName, e.FileType, e.FileSize, e.StorageKey, e.UploadedAt).
		Scan(&e.ID, &e.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to add evidence: %w", err)
	}
	return nil
}

// ListEvidence retrieves the evidence attached to a complaint
func (r *complaintRepository) ListEvidence(ctx context.Context, complaintID int64) ([]model.Evidence, error) {
	sql := `SELECT id, complaint_id, file_name, file_type, file_size, storage_key, uploaded_at
            FROM evidences WHERE complaint_id = $1 ORDER BY uploaded_at ASC, id ASC`
	rows, err := r.db.Query(ctx, sql, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	var evidences []model.Evidence
	for rows.Next() {
		var e model.Evidence
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.FileName, &e.FileType, &e.FileSize, &e.StorageKey, &e.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence row: %w", err)
		}
		evidences = append(evidences, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evidence rows: %w", err)
	}
	return evidences, nil
}

// FindEvidenceByID retrieves a single evidence record
func (r *complaintRepository) FindEvidenceByID(ctx context.Context, id int64) (*model.Evidence, error) {
	e := &model.Evidence{}
	sql := `SELECT id, complaint_id, file_name, file_type, file_size, storage_key, uploaded_at
            FROM evidences WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&e.ID, &e.ComplaintID, &e.FileName, &e.FileType, &e.FileSize, &e.StorageKey, &e.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find evidence by ID: %w", err)
	}
	return e, nil
}
