package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/levidang306/training-be/internal/transport/http/middleware"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse builds an error payload carrying the request trace ID.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Error:   message,
		TraceID: middleware.GetTraceID(c),
	}
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports readiness per dependency.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// UserPermissionsResponse lists a user's effective permissions.
type UserPermissionsResponse struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}

// UserRolesResponse lists a user's role names.
type UserRolesResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// RoleCatalogEntry describes one role of the hierarchy.
type RoleCatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level"`
}

// RoleCatalogResponse lists the role catalog ordered by level.
type RoleCatalogResponse struct {
	Roles []RoleCatalogEntry `json:"roles"`
}

// PermissionCatalogEntry describes one named capability.
type PermissionCatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PermissionCatalogResponse lists the permission catalog sorted by name.
type PermissionCatalogResponse struct {
	Permissions []PermissionCatalogEntry `json:"permissions"`
}

// AssignRoleRequest names the role to attach.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RoleAssignmentResponse confirms the user now holds the role.
type RoleAssignmentResponse struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Assigned bool   `json:"assigned"`
}

// RoleRemovalResponse reports whether a role link was actually removed.
type RoleRemovalResponse struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	Removed bool   `json:"removed"`
}

// AccessCheckRequest describes an authorization question.
type AccessCheckRequest struct {
	UserID          string   `json:"user_id" binding:"required"`
	ResourceOwnerID string   `json:"resource_owner_id"`
	Roles           []string `json:"roles"`
	Permissions     []string `json:"permissions"`
	MinimumRole     string   `json:"minimum_role"`
}

// AccessCheckResponse carries the engine's decision.
type AccessCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
