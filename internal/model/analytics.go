package model

// ChartSeries is a chart-ready label/value pairing. Labels keep one entry per
// backend key, zero counts included, so legends stay stable across refreshes.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

// ComplaintStats is the raw key→count shape the analytics endpoints return.
type ComplaintStats struct {
	Data  map[string]int64 `json:"data"`
	Total int64            `json:"total"`
}

// DateRangeStats carries per-day counts for a requested window.
type DateRangeStats struct {
	Data      map[string]int64 `json:"data"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
}

// MonthlyComparison compares the current month's complaint volume with the
// previous month's.
type MonthlyComparison struct {
	CurrentMonth     int64 `json:"currentMonth"`
	PreviousMonth    int64 `json:"previousMonth"`
	PercentageChange int   `json:"percentageChange"`
}

// DashboardSummary bundles everything the admin dashboard renders at once.
type DashboardSummary struct {
	ByStatus              ChartSeries       `json:"byStatus"`
	ByType                ChartSeries       `json:"byType"`
	Trend                 ChartSeries       `json:"trend"`
	MonthlyComparison     MonthlyComparison `json:"monthlyComparison"`
	AverageResolutionTime float64           `json:"averageResolutionTime"` // hours
	TotalComplaints       int64             `json:"totalComplaints"`
}
