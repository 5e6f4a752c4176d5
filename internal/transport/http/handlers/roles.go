package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/usecase"
)

// RoleHandler manages user-role assignments.
type RoleHandler struct {
	access *usecase.AccessService
	logger *zap.Logger
}

func NewRoleHandler(access *usecase.AccessService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{access: access, logger: logger}
}

// List returns the role catalog ordered by descending hierarchy level.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.access.ListRoles(c.Request.Context())
	if err != nil {
		h.logger.Error("list roles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	entries := make([]RoleCatalogEntry, 0, len(roles))
	for _, role := range roles {
		entry := RoleCatalogEntry{Name: role.Name, Level: role.Level}
		if role.Description != nil {
			entry.Description = *role.Description
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, RoleCatalogResponse{Roles: entries})
}

// Assign attaches a role to the user. Re-assigning a held role is a no-op
// that still succeeds.
func (h *RoleHandler) Assign(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user id is required"))
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request body"))
		return
	}

	ok, err := h.access.AssignRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		h.logger.Error("assign role",
			zap.String("user_id", userID),
			zap.String("role", req.Role),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to assign role"))
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "user or role not found"))
		return
	}

	c.JSON(http.StatusOK, RoleAssignmentResponse{
		UserID:   userID,
		Role:     req.Role,
		Assigned: true,
	})
}

// Remove detaches a role from the user. Removing an absent role reports
// removed=false without an error.
func (h *RoleHandler) Remove(c *gin.Context) {
	userID := c.Param("id")
	roleName := c.Param("name")
	if userID == "" || roleName == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user id and role name are required"))
		return
	}

	removed, err := h.access.RemoveRole(c.Request.Context(), userID, roleName)
	if err != nil {
		h.logger.Error("remove role",
			zap.String("user_id", userID),
			zap.String("role", roleName),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to remove role"))
		return
	}

	c.JSON(http.StatusOK, RoleRemovalResponse{
		UserID:  userID,
		Role:    roleName,
		Removed: removed,
	})
}
