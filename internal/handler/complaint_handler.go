package handler

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/FranOrder/complaint-backend/internal/listing"
	"github.com/FranOrder/complaint-backend/internal/middleware"
	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ComplaintHandler handles complaint related requests
type ComplaintHandler struct {
	service service.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(s service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// parseComplaintFilters reads the shared admin listing/export query params.
func parseComplaintFilters(c *gin.Context) (model.ComplaintFilters, bool) {
	var filters model.ComplaintFilters
	filters.Search = c.Query("q")
	filters.Status = c.Query("status")
	filters.ViolenceType = c.Query("violence_type")

	if startDateParam := c.Query("start_date"); startDateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'start_date', use YYYY-MM-DD"})
			return filters, false
		}
		filters.StartDate = &parsedDate
	}
	if endDateParam := c.Query("end_date"); endDateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'end_date', use YYYY-MM-DD"})
			return filters, false
		}
		// Adjust end date to include the whole day
		endOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 23, 59, 59, 999999999, parsedDate.Location())
		filters.EndDate = &endOfDay
	}
	return filters, true
}

func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	complaint, err := h.service.CreateComplaint(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error creating complaint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) GetMyComplaints(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	complaints, err := h.service.GetVictimComplaints(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error getting victim complaints: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *ComplaintHandler) GetComplaintByID(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	complaintID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	complaint, err := h.service.GetComplaintByID(c.Request.Context(), complaintID, userID, userRole)
	if err != nil {
		h.respondComplaintError(c, err, "Failed to retrieve complaint")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// UpdateStatus moves a complaint through the staff workflow (admin only).
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	complaintID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	complaint, err := h.service.UpdateStatus(c.Request.Context(), complaintID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrComplaintClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Printf("Error updating complaint status: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint status"})
		}
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// --- Evidence Handling ---

func (h *ComplaintHandler) UploadEvidence(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required: " + err.Error()})
		return
	}

	complaintID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multipart form is required: " + err.Error()})
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one evidence file is required"})
		return
	}

	results, err := h.service.AttachEvidence(c.Request.Context(), complaintID, userID, files)
	if err != nil {
		h.respondComplaintError(c, err, "Failed to upload evidence")
		return
	}

	// Per-file outcomes; a failed file never hides the ones that worked.
	status := http.StatusCreated
	for _, r := range results {
		if r.Error != "" {
			status = http.StatusMultiStatus
			break
		}
	}
	c.JSON(status, gin.H{"results": results})
}

func (h *ComplaintHandler) GetEvidence(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required: " + err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	complaintID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}
	evidenceID, err := strconv.ParseInt(c.Param("evidenceId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid evidence ID"})
		return
	}

	filePath, fileName, err := h.service.GetEvidencePath(c.Request.Context(), complaintID, evidenceID, userID, userRole)
	if err != nil {
		h.respondComplaintError(c, err, "Failed to get evidence path")
		return
	}

	// Check if file exists before attempting to serve
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evidence file not found on server"})
		return
	}

	c.FileAttachment(filePath, fileName)
}

// --- Admin Routes ---

// GetAllComplaintsAdmin serves the management table: repo-level filters narrow
// the fetch, then the free-text search and pagination run through the listing
// pipeline the same way for every table.
func (h *ComplaintHandler) GetAllComplaintsAdmin(c *gin.Context) {
	filters, ok := parseComplaintFilters(c)
	if !ok {
		return
	}

	page := 1
	if pageParam := c.Query("page"); pageParam != "" {
		p, err := strconv.Atoi(pageParam)
		if err != nil || p < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page number"})
			return
		}
		page = p
	}
	pageSize := listing.DefaultPageSize
	if sizeParam := c.Query("page_size"); sizeParam != "" {
		s, err := strconv.Atoi(sizeParam)
		if err != nil || s < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page size"})
			return
		}
		pageSize = s
	}

	search := filters.Search
	filters.Search = ""
	complaints, err := h.service.GetAllComplaints(c.Request.Context(), filters)
	if err != nil {
		log.Printf("Error getting all complaints for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}

	result := listing.Apply(complaints, []listing.Predicate[model.Complaint]{
		listing.TextSearch(search, func(cm model.Complaint) string { return cm.SearchText() }),
	}, page, pageSize)

	c.JSON(http.StatusOK, result)
}

func (h *ComplaintHandler) respondComplaintError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrComplaintNotFound), errors.Is(err, service.ErrEvidenceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidFileFormat), errors.Is(err, service.ErrFileSizeExceeded), errors.Is(err, service.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterComplaintRoutes registers complaint routes
func (h *ComplaintHandler) RegisterComplaintRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	complaintRoutes := rg.Group("/complaints")
	complaintRoutes.Use(authMW)
	{
		complaintRoutes.POST("", h.CreateComplaint)
		complaintRoutes.GET("/my-complaints", h.GetMyComplaints)
		// Ownership is enforced in the service layer for non-admins.
		complaintRoutes.GET("/:id", h.GetComplaintByID)
		complaintRoutes.POST("/:id/evidence", h.UploadEvidence)
		complaintRoutes.GET("/:id/evidence/:evidenceId", h.GetEvidence)
	}

	adminRoutes := rg.Group("/admin/complaints")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("", h.GetAllComplaintsAdmin)
		adminRoutes.PATCH("/:id/status", h.UpdateStatus)
	}
}
