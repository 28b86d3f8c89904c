// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/middleware"
)

// UserAdminHandler handles admin user management endpoints
type UserAdminHandler struct {
	userService *user.Service
	logger      logrus.FieldLogger
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(users *user.Service, logger logrus.FieldLogger) *UserAdminHandler {
	return &UserAdminHandler{
		userService: users,
		logger:      logger,
	}
}

// UserStatusUpdateRequest is the body of PUT /admin/users/:id/status
type UserStatusUpdateRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UserAdminToggleRequest is the body of PUT /admin/users/:id/admin
type UserAdminToggleRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// GetUsers handles GET /admin/users
func (h *UserAdminHandler) GetUsers(c *gin.Context) {
	var req user.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.userService.ListUsers(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"data":    response,
	})
}

// GetUser handles GET /admin/users/:id
func (h *UserAdminHandler) GetUser(c *gin.Context) {
	u, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User retrieved successfully",
		"data":    u,
	})
}

// UpdateUserStatus handles PUT /admin/users/:id/status
func (h *UserAdminHandler) UpdateUserStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	var req UserStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	u, err := h.userService.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive, adminID)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	action := "activated"
	if !*req.IsActive {
		action = "deactivated"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User " + action + " successfully",
		"data":    u,
	})
}

// ToggleUserAdmin handles PUT /admin/users/:id/admin
func (h *UserAdminHandler) ToggleUserAdmin(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	var req UserAdminToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	u, err := h.userService.SetAdmin(c.Request.Context(), c.Param("id"), *req.IsAdmin, adminID)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	action := "granted"
	if !*req.IsAdmin {
		action = "revoked"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin privileges " + action + " successfully",
		"data":    u,
	})
}

func (h *UserAdminHandler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, user.ErrSelfModification):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		h.logger.WithError(err).Error("User admin operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update user",
		})
	}
}
