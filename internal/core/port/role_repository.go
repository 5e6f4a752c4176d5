package port

import (
	"context"

	"github.com/levidang306/training-be/internal/core/domain"
)

// RoleRepository handles role persistence and the user-role association.
type RoleRepository interface {
	Upsert(ctx context.Context, role domain.Role) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Role, error)
	AssignToUser(ctx context.Context, roleID, userID string) (int, error)
	RemoveFromUser(ctx context.Context, roleID, userID string) (int, error)
	DeleteAll(ctx context.Context) error
}
