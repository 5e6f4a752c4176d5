package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/usecase"
)

// PermissionHandler exposes the permission catalog.
type PermissionHandler struct {
	access *usecase.AccessService
	logger *zap.Logger
}

func NewPermissionHandler(access *usecase.AccessService, logger *zap.Logger) *PermissionHandler {
	return &PermissionHandler{access: access, logger: logger}
}

// List returns every catalogued permission sorted by name.
func (h *PermissionHandler) List(c *gin.Context) {
	permissions, err := h.access.ListPermissions(c.Request.Context())
	if err != nil {
		h.logger.Error("list permissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list permissions"))
		return
	}

	entries := make([]PermissionCatalogEntry, 0, len(permissions))
	for _, permission := range permissions {
		entry := PermissionCatalogEntry{Name: permission.Name}
		if permission.Description != nil {
			entry.Description = *permission.Description
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, PermissionCatalogResponse{Permissions: entries})
}
