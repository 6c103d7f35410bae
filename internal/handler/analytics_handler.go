package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/FranOrder/complaint-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the admin dashboard aggregations and report exports
type AnalyticsHandler struct {
	service service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

func parseDateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if startDateParam := c.Query("start_date"); startDateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'start_date', use YYYY-MM-DD"})
			return nil, nil, false
		}
		start = &parsedDate
	}
	if endDateParam := c.Query("end_date"); endDateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'end_date', use YYYY-MM-DD"})
			return nil, nil, false
		}
		endOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 23, 59, 59, 999999999, parsedDate.Location())
		end = &endOfDay
	}
	return start, end, true
}

func (h *AnalyticsHandler) GetComplaintsByStatus(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	series, err := h.service.GetStatusSeries(c.Request.Context(), start, end)
	if err != nil {
		log.Printf("Error getting complaints by status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *AnalyticsHandler) GetComplaintsByType(c *gin.Context) {
	series, err := h.service.GetTypeSeries(c.Request.Context())
	if err != nil {
		log.Printf("Error getting complaints by type: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetComplaintsByDate returns the daily trend; the window defaults to the
// last 30 days when no range is given.
func (h *AnalyticsHandler) GetComplaintsByDate(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	now := time.Now()
	if end == nil {
		end = &now
	}
	if start == nil {
		s := end.AddDate(0, 0, -30)
		start = &s
	}
	if start.After(*end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'start_date' must not be after 'end_date'"})
		return
	}

	series, err := h.service.GetTrendSeries(c.Request.Context(), *start, *end)
	if err != nil {
		log.Printf("Error getting complaints by date: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *AnalyticsHandler) GetMonthlyComparison(c *gin.Context) {
	comparison, err := h.service.GetMonthlyComparison(c.Request.Context())
	if err != nil {
		log.Printf("Error getting monthly comparison: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (h *AnalyticsHandler) GetAverageResolutionTime(c *gin.Context) {
	hours, err := h.service.GetAverageResolutionTime(c.Request.Context())
	if err != nil {
		log.Printf("Error getting average resolution time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"averageResolutionHours": hours})
}

func (h *AnalyticsHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.service.GetDashboardSummary(c.Request.Context())
	if err != nil {
		log.Printf("Error getting dashboard summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) ExportComplaintsCSV(c *gin.Context) {
	filters, ok := parseComplaintFilters(c)
	if !ok {
		return
	}

	data, err := h.service.ExportComplaintsCSV(c.Request.Context(), filters)
	if err != nil {
		log.Printf("Error exporting complaints to CSV: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export complaints to CSV"})
		return
	}

	fileName := fmt.Sprintf("denuncias_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *AnalyticsHandler) ExportComplaintsExcel(c *gin.Context) {
	filters, ok := parseComplaintFilters(c)
	if !ok {
		return
	}

	data, err := h.service.ExportComplaintsExcel(c.Request.Context(), filters)
	if err != nil {
		log.Printf("Error exporting complaints to Excel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export complaints to Excel"})
		return
	}

	fileName := fmt.Sprintf("denuncias_export_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// RegisterAnalyticsRoutes registers the dashboard and report routes (admin only)
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	analyticsRoutes := rg.Group("/analytics")
	analyticsRoutes.Use(authMW)
	analyticsRoutes.Use(adminMW)
	{
		analyticsRoutes.GET("/complaints-by-status", h.GetComplaintsByStatus)
		analyticsRoutes.GET("/complaints-by-type", h.GetComplaintsByType)
		analyticsRoutes.GET("/complaints-by-date", h.GetComplaintsByDate)
		analyticsRoutes.GET("/monthly-comparison", h.GetMonthlyComparison)
		analyticsRoutes.GET("/average-resolution-time", h.GetAverageResolutionTime)
		analyticsRoutes.GET("/summary", h.GetDashboardSummary)
	}

	reportRoutes := rg.Group("/admin/reports")
	reportRoutes.Use(authMW)
	reportRoutes.Use(adminMW)
	{
		reportRoutes.GET("/export/csv", h.ExportComplaintsCSV)
		reportRoutes.GET("/export/xlsx", h.ExportComplaintsExcel)
	}
}
