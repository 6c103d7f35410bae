package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/FranOrder/complaint-backend/internal/model"
	"github.com/FranOrder/complaint-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and admin user management requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) GetMyProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error getting profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser edits a profile's name/phone. The service only lets the account
// owner or an admin through.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), targetID, callerID, userRole, req)
	if err != nil {
		h.respondUserError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- Admin Routes ---

func (h *UserHandler) GetAllUsersAdmin(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		log.Printf("Error getting all users for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) CreateUserAdmin(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.respondUserError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) SetUserActiveAdmin(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.SetActive(c.Request.Context(), targetID, *req.IsActive); err != nil {
		h.respondUserError(c, err, "Failed to change account state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account state updated"})
}

func (h *UserHandler) respondUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidUserData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterUserRoutes registers profile and admin user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	userRoutes := rg.Group("/users")
	userRoutes.Use(authMW)
	{
		userRoutes.GET("/profile", h.GetMyProfile)
		userRoutes.PUT("/:id", h.UpdateUser) // Service layer enforces owner-or-admin
	}

	adminRoutes := rg.Group("/admin/users")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("", h.GetAllUsersAdmin)
		adminRoutes.POST("", h.CreateUserAdmin)
		adminRoutes.PATCH("/:id/active", h.SetUserActiveAdmin)
	}
}
