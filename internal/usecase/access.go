package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
	"github.com/levidang306/training-be/internal/repository"
)

// AccessService answers authorization questions about a specific user. All
// query operations are read-only; AssignRole and RemoveRole mutate the
// persisted user-role association. Unknown users, unknown roles, and missing
// privileges are reported as empty results or false, never as errors — only
// storage failures propagate.
type AccessService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	users       port.UserRepository
	events      port.EventPublisher
	logger      *zap.Logger
}

// NewAccessService constructs an AccessService.
func NewAccessService(roles port.RoleRepository, permissions port.PermissionRepository, users port.UserRepository, events port.EventPublisher, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{
		roles:       roles,
		permissions: permissions,
		users:       users,
		events:      events,
		logger:      logger,
	}
}

// EffectivePermissions returns the sorted union of permission names across
// every role the user holds. A user that does not exist or holds no roles
// yields an empty slice.
func (s *AccessService) EffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	set, err := s.effectivePermissionSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// HasPermission reports whether the user's effective permission set contains
// the named permission.
func (s *AccessService) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	set, err := s.effectivePermissionSet(ctx, userID)
	if err != nil {
		return false, err
	}

	_, ok := set[permission]
	return ok, nil
}

// HasAnyPermission reports whether the user holds at least one of the named
// permissions. An empty requested set always denies.
func (s *AccessService) HasAnyPermission(ctx context.Context, userID string, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	set, err := s.effectivePermissionSet(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, name := range permissions {
		if _, ok := set[name]; ok {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions reports whether the user holds every named permission.
// An empty requested set is vacuously satisfied.
func (s *AccessService) HasAllPermissions(ctx context.Context, userID string, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return true, nil
	}

	set, err := s.effectivePermissionSet(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, name := range permissions {
		if _, ok := set[name]; !ok {
			return false, nil
		}
	}

	return true, nil
}

// ListRoles returns every role in the catalog ordered by descending
// hierarchy level, ties broken by name.
func (s *AccessService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	sort.Slice(roles, func(i, j int) bool {
		if roles[i].Level != roles[j].Level {
			return roles[i].Level > roles[j].Level
		}
		return roles[i].Name < roles[j].Name
	})

	return roles, nil
}

// ListPermissions returns every permission in the catalog sorted by name.
func (s *AccessService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.permissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	sort.Slice(permissions, func(i, j int) bool {
		return permissions[i].Name < permissions[j].Name
	})

	return permissions, nil
}

// Roles returns the sorted names of the roles the user holds.
func (s *AccessService) Roles(ctx context.Context, userID string) ([]string, error) {
	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles by user: %w", err)
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	sort.Strings(names)

	return names, nil
}

// HasRole reports whether the user holds the named role.
func (s *AccessService) HasRole(ctx context.Context, userID, roleName string) (bool, error) {
	return s.HasAnyRole(ctx, userID, []string{roleName})
}

// HasAnyRole reports whether the user holds at least one of the named roles.
// An empty requested set always denies.
func (s *AccessService) HasAnyRole(ctx context.Context, userID string, roleNames []string) (bool, error) {
	if len(roleNames) == 0 {
		return false, nil
	}

	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list roles by user: %w", err)
	}

	held := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		held[role.Name] = struct{}{}
	}

	for _, name := range roleNames {
		if _, ok := held[name]; ok {
			return true, nil
		}
	}

	return false, nil
}

// HasMinimumRoleLevel reports whether any of the user's roles sits at or
// above the hierarchy level of minimumRole. An unknown minimumRole counts as
// level 0. A user with zero roles never satisfies any threshold.
func (s *AccessService) HasMinimumRoleLevel(ctx context.Context, userID, minimumRole string) (bool, error) {
	threshold, err := s.hierarchyLevelOf(ctx, minimumRole)
	if err != nil {
		return false, err
	}

	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list roles by user: %w", err)
	}

	if len(roles) == 0 {
		return false, nil
	}

	for _, role := range roles {
		if role.Level >= threshold {
			return true, nil
		}
	}

	return false, nil
}

// CanAccessResource grants access when the user owns the resource,
// regardless of permissions; otherwise it falls back to HasAnyPermission
// over the required set.
func (s *AccessService) CanAccessResource(ctx context.Context, userID, resourceOwnerID string, requiredPermissions []string) (bool, error) {
	if userID != "" && userID == resourceOwnerID {
		return true, nil
	}

	return s.HasAnyPermission(ctx, userID, requiredPermissions)
}

// AssignRole attaches the named role to the user. Assigning a role the user
// already holds succeeds as a no-op. Returns false when the user or role does
// not exist.
func (s *AccessService) AssignRole(ctx context.Context, userID, roleName string) (bool, error) {
	userID = strings.TrimSpace(userID)
	roleName = strings.TrimSpace(roleName)
	if userID == "" || roleName == "" {
		return false, nil
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup role by name: %w", err)
	}

	inserted, err := s.roles.AssignToUser(ctx, role.ID, userID)
	if err != nil {
		return false, fmt.Errorf("assign role to user: %w", err)
	}

	if inserted > 0 {
		s.publishRoleAssigned(ctx, userID, *role)
	}

	return true, nil
}

// RemoveRole detaches the named role from the user. Returns true only when a
// link existed and was removed.
func (s *AccessService) RemoveRole(ctx context.Context, userID, roleName string) (bool, error) {
	userID = strings.TrimSpace(userID)
	roleName = strings.TrimSpace(roleName)
	if userID == "" || roleName == "" {
		return false, nil
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup role by name: %w", err)
	}

	removed, err := s.roles.RemoveFromUser(ctx, role.ID, userID)
	if err != nil {
		return false, fmt.Errorf("remove role from user: %w", err)
	}

	if removed == 0 {
		return false, nil
	}

	s.publishRoleRemoved(ctx, userID, *role)

	return true, nil
}

// effectivePermissionSet walks user -> roles -> permissions explicitly and
// folds the union. No caching; every call reads the current graph.
func (s *AccessService) effectivePermissionSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles by user: %w", err)
	}

	set := make(map[string]struct{})
	for _, role := range roles {
		permissions, err := s.permissions.ListByRole(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("list permissions of role %q: %w", role.Name, err)
		}
		for _, permission := range permissions {
			set[permission.Name] = struct{}{}
		}
	}

	return set, nil
}

// hierarchyLevelOf resolves a role name to its persisted level; unknown role
// names default to 0.
func (s *AccessService) hierarchyLevelOf(ctx context.Context, roleName string) (int, error) {
	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("lookup role by name: %w", err)
	}

	return role.Level, nil
}

func (s *AccessService) publishRoleAssigned(ctx context.Context, userID string, role domain.Role) {
	if s.events == nil {
		return
	}

	event := domain.RoleAssignedEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		RoleID:     role.ID,
		RoleName:   role.Name,
		AssignedAt: time.Now().UTC(),
	}

	if err := s.events.PublishRoleAssigned(ctx, event); err != nil {
		s.logger.Warn("publish role assigned event failed",
			zap.String("user_id", userID),
			zap.String("role", role.Name),
			zap.Error(err),
		)
	}
}

func (s *AccessService) publishRoleRemoved(ctx context.Context, userID string, role domain.Role) {
	if s.events == nil {
		return
	}

	event := domain.RoleRemovedEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		RoleID:    role.ID,
		RoleName:  role.Name,
		RemovedAt: time.Now().UTC(),
	}

	if err := s.events.PublishRoleRemoved(ctx, event); err != nil {
		s.logger.Warn("publish role removed event failed",
			zap.String("user_id", userID),
			zap.String("role", role.Name),
			zap.Error(err),
		)
	}
}
