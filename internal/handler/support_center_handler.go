package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/FranOrder/complaint-backend/internal/listing"
	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SupportCenterHandler handles support center requests
type SupportCenterHandler struct {
	service service.SupportCenterService
}

// NewSupportCenterHandler creates a new SupportCenterHandler
func NewSupportCenterHandler(s service.SupportCenterService) *SupportCenterHandler {
	return &SupportCenterHandler{service: s}
}

// GetCenters lists support centers with search/district/zone filters and
// pagination, all applied through the listing pipeline.
func (h *SupportCenterHandler) GetCenters(c *gin.Context) {
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
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

	centers, err := h.service.GetCenters(c.Request.Context(), userRole)
	if err != nil {
		log.Printf("Error getting support centers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve support centers"})
		return
	}

	filters := model.SupportCenterFilters{
		Search:   c.Query("q"),
		District: c.Query("district"),
		Zone:     c.Query("zone"),
	}
	result := listing.Apply(centers, []listing.Predicate[model.SupportCenter]{
		listing.TextSearch(filters.Search, func(sc model.SupportCenter) string {
			return strings.ToLower(sc.Name + " " + sc.Street + " " + model.DistrictLabels[sc.District] + " " + sc.District)
		}),
		listing.Equals(filters.District, func(sc model.SupportCenter) string { return sc.District }),
		listing.Equals(filters.Zone, func(sc model.SupportCenter) string { return sc.Zone }),
	}, page, listing.DefaultPageSize)

	c.JSON(http.StatusOK, result)
}

func (h *SupportCenterHandler) GetCenterByID(c *gin.Context) {
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	centerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid support center ID"})
		return
	}

	center, err := h.service.GetCenterByID(c.Request.Context(), centerID, userRole)
	if err != nil {
		h.respondCenterError(c, err, "Failed to retrieve support center")
		return
	}
	c.JSON(http.StatusOK, center)
}

// --- Admin Routes ---

func (h *SupportCenterHandler) CreateCenter(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.SupportCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	center, err := h.service.CreateCenter(c.Request.Context(), strconv.Itoa(userID), req)
	if err != nil {
		h.respondCenterError(c, err, "Failed to create support center")
		return
	}
	c.JSON(http.StatusCreated, center)
}

func (h *SupportCenterHandler) UpdateCenter(c *gin.Context) {
	centerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid support center ID"})
		return
	}

	var req model.SupportCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	center, err := h.service.UpdateCenter(c.Request.Context(), centerID, req)
	if err != nil {
		h.respondCenterError(c, err, "Failed to update support center")
		return
	}
	c.JSON(http.StatusOK, center)
}

func (h *SupportCenterHandler) DeleteCenter(c *gin.Context) {
	centerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid support center ID"})
		return
	}

	if err := h.service.DeleteCenter(c.Request.Context(), centerID); err != nil {
		h.respondCenterError(c, err, "Failed to delete support center")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Support center deleted successfully"})
}

func (h *SupportCenterHandler) respondCenterError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCenterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidDistrict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterSupportCenterRoutes registers support center routes
func (h *SupportCenterHandler) RegisterSupportCenterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	centerRoutes := rg.Group("/support-centers")
	centerRoutes.Use(authMW)
	{
		centerRoutes.GET("", h.GetCenters)
		centerRoutes.GET("/:id", h.GetCenterByID)

		// Management paths mirror the ones the admin frontend already calls.
		centerRoutes.POST("/create", adminMW, h.CreateCenter)
		centerRoutes.PUT("/:id/edit", adminMW, h.UpdateCenter)
		centerRoutes.DELETE("/:id/delete", adminMW, h.DeleteCenter)
	}
}
