package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// AnalyticsRepository aggregates complaint counts for the admin dashboards.
type AnalyticsRepository interface {
	CountByStatus(ctx context.Context, start, end *time.Time) (map[string]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	CountByDay(ctx context.Context, start, end time.Time) (map[string]int64, error)
	CountForMonth(ctx context.Context, year int, month time.Month) (int64, error)
	AverageResolutionHours(ctx context.Context) (float64, error)
	Total(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	db Querier
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db Querier) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func countsQuery(ctx context.Context, db Querier, sql string, args ...any) (map[string]int64, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[key] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}
	return counts, nil
}

// CountByStatus returns complaint counts keyed by raw status, optionally
// limited to a creation-date window.
func (r *analyticsRepository) CountByStatus(ctx context.Context, start, end *time.Time) (map[string]int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT status, COUNT(*) FROM complaints`)

	args := []interface{}{}
	argCount := 1
	var conditions []string
	if start != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCount))
		args = append(args, *start)
		argCount++
	}
	if end != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argCount))
		args = append(args, *end)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" GROUP BY status")

	return countsQuery(ctx, r.db, queryBuilder.String(), args...)
}

// CountByType returns complaint counts keyed by raw violence type.
func (r *analyticsRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	return countsQuery(ctx, r.db, `SELECT violence_type, COUNT(*) FROM complaints GROUP BY violence_type`)
}

// CountByDay returns complaint counts keyed by ISO date (YYYY-MM-DD) within
// the window. Days with no complaints carry no key.
func (r *analyticsRepository) CountByDay(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	sql := `SELECT TO_CHAR(created_at, 'YYYY-MM-DD'), COUNT(*)
            FROM complaints WHERE created_at >= $1 AND created_at <= $2
            GROUP BY TO_CHAR(created_at, 'YYYY-MM-DD')`
	return countsQuery(ctx, r.db, sql, start, end)
}

// CountForMonth returns how many complaints were created in a calendar month.
func (r *analyticsRepository) CountForMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	sql := `SELECT COUNT(*) FROM complaints
            WHERE EXTRACT(YEAR FROM created_at) = $1 AND EXTRACT(MONTH FROM created_at) = $2`
	var count int64
	if err := r.db.QueryRow(ctx, sql, year, int(month)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count complaints for month: %w", err)
	}
	return count, nil
}

// AverageResolutionHours averages creation-to-last-update time over CLOSED
// complaints, in hours. Zero when nothing is closed yet.
func (r *analyticsRepository) AverageResolutionHours(ctx context.Context) (float64, error) {
	sql := `SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at))) / 3600, 0)
            FROM complaints WHERE status = 'CLOSED'`
	var hours float64
	err := r.db.QueryRow(ctx, sql).Scan(&hours)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to compute average resolution time: %w", err)
	}
	return hours, nil
}

// Total returns the overall complaint count.
func (r *analyticsRepository) Total(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	return count, nil
}
