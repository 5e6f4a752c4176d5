package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishRoleAssigned logs access.role.assigned events.
func (p *StubPublisher) PublishRoleAssigned(_ context.Context, event domain.RoleAssignedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"role_id":     event.RoleID,
		"role_name":   event.RoleName,
		"assigned_by": event.AssignedBy,
		"assigned_at": event.AssignedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("access.role.assigned", event.UserID, event.AssignedAt, payload)
	return nil
}

// PublishRoleRemoved logs access.role.removed events.
func (p *StubPublisher) PublishRoleRemoved(_ context.Context, event domain.RoleRemovedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"role_id":    event.RoleID,
		"role_name":  event.RoleName,
		"removed_by": event.RemovedBy,
		"removed_at": event.RemovedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("access.role.removed", event.UserID, event.RemovedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
