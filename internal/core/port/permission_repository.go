package port

import (
	"context"

	"github.com/levidang306/training-be/internal/core/domain"
)

// PermissionRepository manages permission storage.
type PermissionRepository interface {
	Upsert(ctx context.Context, permission domain.Permission) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error)
	DeleteAll(ctx context.Context) error
}
