package usecase

import (
	"context"
	"fmt"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
)

// PermissionDefinition describes one seedable permission.
type PermissionDefinition struct {
	Name        string
	Description string
}

// RoleDefinition describes one seedable role: its hierarchy level and the
// exact permission set it grants.
type RoleDefinition struct {
	Name        string
	Description string
	Level       int
	Permissions []string
}

// Catalog is the full role-permission graph written by the seed command.
type Catalog struct {
	Permissions []PermissionDefinition
	Roles       []RoleDefinition
}

// DefaultCatalog returns the built-in task-board catalog. Role levels must
// stay stable across releases; clients rely on them for minimum-level checks.
func DefaultCatalog() Catalog {
	return Catalog{
		Permissions: []PermissionDefinition{
			{Name: "projects:create", Description: "Create projects"},
			{Name: "projects:read", Description: "View projects"},
			{Name: "projects:update", Description: "Update projects"},
			{Name: "projects:delete", Description: "Delete projects"},
			{Name: "boards:create", Description: "Create boards"},
			{Name: "boards:read", Description: "View boards"},
			{Name: "boards:update", Description: "Update boards"},
			{Name: "boards:delete", Description: "Delete boards"},
			{Name: "lists:create", Description: "Create lists"},
			{Name: "lists:read", Description: "View lists"},
			{Name: "lists:update", Description: "Update lists"},
			{Name: "lists:delete", Description: "Delete lists"},
			{Name: "cards:create", Description: "Create cards"},
			{Name: "cards:read", Description: "View cards"},
			{Name: "cards:update", Description: "Update cards"},
			{Name: "cards:delete", Description: "Delete cards"},
			{Name: "cards:move", Description: "Move cards between lists"},
			{Name: "cards:assign", Description: "Assign cards to members"},
			{Name: "comments:create", Description: "Write comments"},
			{Name: "comments:read", Description: "View comments"},
			{Name: "comments:update", Description: "Edit comments"},
			{Name: "comments:delete", Description: "Delete comments"},
			{Name: "members:invite", Description: "Invite members"},
			{Name: "members:remove", Description: "Remove members"},
			{Name: "members:read", Description: "View member lists"},
			{Name: "users:read", Description: "View user accounts"},
			{Name: "users:update", Description: "Update user accounts"},
			{Name: "users:delete", Description: "Delete user accounts"},
			{Name: "roles:read", Description: "View role definitions"},
			{Name: "roles:assign", Description: "Assign roles to users"},
			{Name: "roles:remove", Description: "Remove roles from users"},
		},
		Roles: []RoleDefinition{
			{
				Name:        "admin",
				Description: "Full platform administration",
				Level:       100,
				Permissions: []string{
					"projects:create", "projects:read", "projects:update", "projects:delete",
					"boards:create", "boards:read", "boards:update", "boards:delete",
					"lists:create", "lists:read", "lists:update", "lists:delete",
					"cards:create", "cards:read", "cards:update", "cards:delete", "cards:move", "cards:assign",
					"comments:create", "comments:read", "comments:update", "comments:delete",
					"members:invite", "members:remove", "members:read",
					"users:read", "users:update", "users:delete",
					"roles:read", "roles:assign", "roles:remove",
				},
			},
			{
				Name:        "workspace_admin",
				Description: "Administers every board in a workspace",
				Level:       80,
				Permissions: []string{
					"projects:create", "projects:read", "projects:update", "projects:delete",
					"boards:create", "boards:read", "boards:update", "boards:delete",
					"lists:create", "lists:read", "lists:update", "lists:delete",
					"cards:create", "cards:read", "cards:update", "cards:delete", "cards:move", "cards:assign",
					"comments:create", "comments:read", "comments:update", "comments:delete",
					"members:invite", "members:remove", "members:read",
					"users:read",
					"roles:read", "roles:assign", "roles:remove",
				},
			},
			{
				Name:        "board_owner",
				Description: "Owns a board and its membership",
				Level:       60,
				Permissions: []string{
					"boards:read", "boards:update", "boards:delete",
					"lists:create", "lists:read", "lists:update", "lists:delete",
					"cards:create", "cards:read", "cards:update", "cards:delete", "cards:move", "cards:assign",
					"comments:create", "comments:read", "comments:update", "comments:delete",
					"members:invite", "members:remove", "members:read",
				},
			},
			{
				Name:        "board_admin",
				Description: "Manages board content and invitations",
				Level:       50,
				Permissions: []string{
					"boards:read", "boards:update",
					"lists:create", "lists:read", "lists:update", "lists:delete",
					"cards:create", "cards:read", "cards:update", "cards:delete", "cards:move", "cards:assign",
					"comments:create", "comments:read", "comments:update", "comments:delete",
					"members:invite", "members:read",
				},
			},
			{
				Name:        "board_member",
				Description: "Works on cards within a board",
				Level:       30,
				Permissions: []string{
					"boards:read",
					"lists:read",
					"cards:create", "cards:read", "cards:update", "cards:move",
					"comments:create", "comments:read", "comments:update",
					"members:read",
				},
			},
			{
				Name:        "board_observer",
				Description: "Read-only board access",
				Level:       20,
				Permissions: []string{
					"boards:read", "lists:read", "cards:read", "comments:read", "members:read",
				},
			},
			{
				Name:        "user",
				Description: "Registered user baseline",
				Level:       10,
				Permissions: []string{
					"projects:create", "projects:read", "boards:create", "boards:read",
				},
			},
			{
				Name:        "guest",
				Description: "Unregistered visitor with shared-board access",
				Level:       5,
				Permissions: []string{
					"boards:read",
				},
			},
		},
	}
}

// SeedService populates and resets the role-permission graph. Both
// operations are administrative; neither runs on the request path.
type SeedService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	users       port.UserRepository
	logger      *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(roles port.RoleRepository, permissions port.PermissionRepository, users port.UserRepository, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{roles: roles, permissions: permissions, users: users, logger: logger}
}

// Seed upserts the catalog. Re-running never duplicates rows: permissions
// and roles conflict on name and are overwritten, and each role's permission
// set is replaced with exactly the catalog's current definition.
func (s *SeedService) Seed(ctx context.Context, catalog Catalog) error {
	permissionIDs := make(map[string]string, len(catalog.Permissions))

	for _, def := range catalog.Permissions {
		description := def.Description
		permission := domain.Permission{
			ID:   uuid.NewString(),
			Name: def.Name,
		}
		if description != "" {
			permission.Description = &description
		}

		persisted, err := s.permissions.Upsert(ctx, permission)
		if err != nil {
			return fmt.Errorf("seed permission %q: %w", def.Name, err)
		}

		permissionIDs[persisted.Name] = persisted.ID
	}

	for _, def := range catalog.Roles {
		description := def.Description
		role := domain.Role{
			ID:    uuid.NewString(),
			Name:  def.Name,
			Level: def.Level,
		}
		if description != "" {
			role.Description = &description
		}

		persisted, err := s.roles.Upsert(ctx, role)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", def.Name, err)
		}

		ids := make([]string, 0, len(def.Permissions))
		for _, name := range def.Permissions {
			id, ok := permissionIDs[name]
			if !ok {
				return fmt.Errorf("role %q references unknown permission %q", def.Name, name)
			}
			ids = append(ids, id)
		}

		if err := s.roles.ReplacePermissions(ctx, persisted.ID, ids); err != nil {
			return fmt.Errorf("replace permissions of role %q: %w", def.Name, err)
		}

		s.logger.Info("seeded role",
			zap.String("role", def.Name),
			zap.Int("level", def.Level),
			zap.Int("permissions", len(ids)),
		)
	}

	return nil
}

// Clean wipes all permissions, roles, and every user holding a role. This is
// an irreversible bulk delete intended for test and development resets.
func (s *SeedService) Clean(ctx context.Context) error {
	deleted, err := s.users.DeleteRoleBearers(ctx)
	if err != nil {
		return fmt.Errorf("delete role-bearing users: %w", err)
	}

	if err := s.roles.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}

	if err := s.permissions.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete permissions: %w", err)
	}

	s.logger.Info("access graph cleaned", zap.Int("users_deleted", deleted))

	return nil
}
