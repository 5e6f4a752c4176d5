package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/usecase"
)

// AccessHandler answers permission and authorization queries.
type AccessHandler struct {
	access *usecase.AccessService
	logger *zap.Logger
}

func NewAccessHandler(access *usecase.AccessService, logger *zap.Logger) *AccessHandler {
	return &AccessHandler{access: access, logger: logger}
}

// UserPermissions returns the effective permission union for a user.
func (h *AccessHandler) UserPermissions(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user id is required"))
		return
	}

	permissions, err := h.access.EffectivePermissions(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("resolve effective permissions", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to resolve permissions"))
		return
	}

	c.JSON(http.StatusOK, UserPermissionsResponse{
		UserID:      userID,
		Permissions: permissions,
	})
}

// UserRoles returns the role names currently assigned to a user.
func (h *AccessHandler) UserRoles(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user id is required"))
		return
	}

	roles, err := h.access.Roles(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list user roles", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	c.JSON(http.StatusOK, UserRolesResponse{
		UserID: userID,
		Roles:  roles,
	})
}

// Check evaluates an arbitrary access question against the graph.
func (h *AccessHandler) Check(c *gin.Context) {
	var req AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request body"))
		return
	}

	decision, err := h.access.Authorize(c.Request.Context(), usecase.AccessRequest{
		UserID:          req.UserID,
		ResourceOwnerID: req.ResourceOwnerID,
		Roles:           req.Roles,
		Permissions:     req.Permissions,
		MinimumRole:     req.MinimumRole,
	})
	if err != nil {
		h.logger.Error("evaluate access check", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to evaluate access"))
		return
	}

	c.JSON(http.StatusOK, AccessCheckResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	})
}
