package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/repository"

	"github.com/xuri/excelize/v2"
)

// AnalyticsService builds the dashboard aggregations and report exports.
type AnalyticsService interface {
	GetStatsByStatus(ctx context.Context, start, end *time.Time) (*model.ComplaintStats, error)
	GetStatsByType(ctx context.Context) (*model.ComplaintStats, error)
	GetStatusSeries(ctx context.Context, start, end *time.Time) (*model.ChartSeries, error)
	GetTypeSeries(ctx context.Context) (*model.ChartSeries, error)
	GetTrendSeries(ctx context.Context, start, end time.Time) (*model.ChartSeries, error)
	GetMonthlyComparison(ctx context.Context) (*model.MonthlyComparison, error)
	GetAverageResolutionTime(ctx context.Context) (float64, error)
	GetDashboardSummary(ctx context.Context) (*model.DashboardSummary, error)
	ExportComplaintsCSV(ctx context.Context, filters model.ComplaintFilters) ([]byte, error)
	ExportComplaintsExcel(ctx context.Context, filters model.ComplaintFilters) ([]byte, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	complaintRepo repository.ComplaintRepository
	now           func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, complaintRepo repository.ComplaintRepository) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		complaintRepo: complaintRepo,
		now:           time.Now,
	}
}

// GetStatsByStatus returns raw status→count data, optionally windowed by
// creation date. Every workflow status is present, zero counts included.
func (s *analyticsService) GetStatsByStatus(ctx context.Context, start, end *time.Time) (*model.ComplaintStats, error) {
	counts, err := s.analyticsRepo.CountByStatus(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats by status: %w", err)
	}
	return statsOver(model.Statuses, counts), nil
}

// GetStatsByType returns raw violence-type→count data with zero counts included.
func (s *analyticsService) GetStatsByType(ctx context.Context) (*model.ComplaintStats, error) {
	counts, err := s.analyticsRepo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats by type: %w", err)
	}
	return statsOver(model.ViolenceTypes, counts), nil
}

func statsOver(keys []string, counts map[string]int64) *model.ComplaintStats {
	data := make(map[string]int64, len(keys))
	var total int64
	for _, key := range keys {
		data[key] = counts[key]
		total += counts[key]
	}
	return &model.ComplaintStats{Data: data, Total: total}
}

// GetStatusSeries returns the status distribution as a chart series with
// localized labels, one point per workflow status in workflow order.
func (s *analyticsService) GetStatusSeries(ctx context.Context, start, end *time.Time) (*model.ChartSeries, error) {
	counts, err := s.analyticsRepo.CountByStatus(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build status series: %w", err)
	}
	return seriesOver(model.Statuses, model.StatusLabels, counts), nil
}

// GetTypeSeries returns the violence-type distribution as a chart series with
// localized labels, one point per type in enumeration order.
func (s *analyticsService) GetTypeSeries(ctx context.Context) (*model.ChartSeries, error) {
	counts, err := s.analyticsRepo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build type series: %w", err)
	}
	return seriesOver(model.ViolenceTypes, model.ViolenceTypeLabels, counts), nil
}

// seriesOver produces one point per enumeration key, zeros included, so chart
// legends keep a stable shape no matter which keys the counts carry.
func seriesOver(keys []string, labels map[string]string, counts map[string]int64) *model.ChartSeries {
	series := &model.ChartSeries{
		Labels: make([]string, 0, len(keys)),
		Values: make([]int64, 0, len(keys)),
	}
	for _, key := range keys {
		series.Labels = append(series.Labels, labels[key])
		series.Values = append(series.Values, counts[key])
	}
	return series
}

// GetTrendSeries returns per-day counts over the window, sorted by ISO date.
// Only days with at least one complaint appear.
func (s *analyticsService) GetTrendSeries(ctx context.Context, start, end time.Time) (*model.ChartSeries, error) {
	counts, err := s.analyticsRepo.CountByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build trend series: %w", err)
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	// ISO dates sort chronologically as plain strings.
	sort.Strings(days)

	series := &model.ChartSeries{
		Labels: make([]string, 0, len(days)),
		Values: make([]int64, 0, len(days)),
	}
	for _, day := range days {
		series.Labels = append(series.Labels, day)
		series.Values = append(series.Values, counts[day])
	}
	return series, nil
}

// GetMonthlyComparison compares the current calendar month's volume against
// the previous month's.
func (s *analyticsService) GetMonthlyComparison(ctx context.Context) (*model.MonthlyComparison, error) {
	now := s.now()
	currentYear, currentMonth, _ := now.Date()
	prev := now.AddDate(0, -1, -now.Day()+1)
	prevYear, prevMonth, _ := prev.Date()

	current, err := s.analyticsRepo.CountForMonth(ctx, currentYear, currentMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to count current month: %w", err)
	}
	previous, err := s.analyticsRepo.CountForMonth(ctx, prevYear, prevMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous month: %w", err)
	}

	return &model.MonthlyComparison{
		CurrentMonth:     current,
		PreviousMonth:    previous,
		PercentageChange: GrowthPercentage(current, previous),
	}, nil
}

// GrowthPercentage computes the month-over-month change, rounded to the
// nearest integer. A previous count of zero yields 100 when the current count
// is positive and 0 otherwise, so a fresh deployment does not divide by zero.
func GrowthPercentage(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

// GetAverageResolutionTime returns the mean hours from creation to closure
// over CLOSED complaints.
func (s *analyticsService) GetAverageResolutionTime(ctx context.Context) (float64, error) {
	hours, err := s.analyticsRepo.AverageResolutionHours(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get average resolution time: %w", err)
	}
	return hours, nil
}

// GetDashboardSummary bundles every dashboard aggregation in one call. The
// trend covers the last 30 days.
func (s *analyticsService) GetDashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	byStatus, err := s.GetStatusSeries(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	byType, err := s.GetTypeSeries(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	trend, err := s.GetTrendSeries(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	comparison, err := s.GetMonthlyComparison(ctx)
	if err != nil {
		return nil, err
	}
	avgResolution, err := s.GetAverageResolutionTime(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.analyticsRepo.Total(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count complaints: %w", err)
	}

	return &model.DashboardSummary{
		ByStatus:              *byStatus,
		ByType:                *byType,
		Trend:                 *trend,
		MonthlyComparison:     *comparison,
		AverageResolutionTime: avgResolution,
		TotalComplaints:       total,
	}, nil
}

var exportHeader = []string{
	"ID", "Fecha de registro", "Víctima", "Tipo de violencia",
	"Estado", "Agresor", "Ubicación", "Tiempo de resolución",
}

func exportRow(c *model.Complaint) []string {
	location := ""
	if c.IncidentLocation != nil {
		location = *c.IncidentLocation
	}
	return []string{
		fmt.Sprintf("%d", c.ID),
		c.CreatedAt.Format("2006-01-02 15:04"),
		c.VictimName,
		model.ViolenceTypeLabels[c.ViolenceType],
		model.StatusLabels[c.Status],
		c.AggressorFullName,
		location,
		c.ResolutionTime(),
	}
}

// ExportComplaintsCSV renders the filtered complaint list as a CSV document
// with localized headers, the same columns the reports table shows.
func (s *analyticsService) ExportComplaintsCSV(ctx context.Context, filters model.ComplaintFilters) ([]byte, error) {
	complaints, err := s.complaintRepo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaints for export: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range complaints {
		if err := writer.Write(exportRow(&complaints[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportComplaintsExcel renders the same report as an .xlsx workbook with a
// single "Denuncias" sheet.
func (s *analyticsService) ExportComplaintsExcel(ctx context.Context, filters model.ComplaintFilters) ([]byte, error) {
	complaints, err := s.complaintRepo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaints for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Denuncias"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for i := range complaints {
		for col, value := range exportRow(&complaints[i]) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
