package port

import (
	"context"

	"github.com/levidang306/training-be/internal/core/domain"
)

// EventPublisher publishes access-control audit events to the message bus.
type EventPublisher interface {
	PublishRoleAssigned(ctx context.Context, event domain.RoleAssignedEvent) error
	PublishRoleRemoved(ctx context.Context, event domain.RoleRemovedEvent) error
}
