package port

import (
	"context"

	"github.com/levidang306/training-be/internal/core/domain"
)

// UserRepository exposes the user lookups the access engine depends on, plus
// the destructive reset used by the administrative clean command.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	DeleteRoleBearers(ctx context.Context) (int, error)
}
