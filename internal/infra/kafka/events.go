package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
	"github.com/levidang306/training-be/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

// newEnvelope wraps a payload with the event metadata shared by every topic.
// The trace id of any span on ctx is propagated so consumers can correlate
// the event with the request that produced it.
func newEnvelope(ctx context.Context, appCfg config.AppSettings, eventID, eventType, userID string, ts time.Time, payload any) eventEnvelope {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     appCfg.Name,
		"environment": appCfg.Env,
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		metadata["trace_id"] = sc.TraceID().String()
	}

	return eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	envelope := newEnvelope(ctx, p.appCfg, eventID, eventType, userID, ts, payload)

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishRoleAssigned publishes task.access.role.assigned events.
func (p *EventPublisher) PublishRoleAssigned(ctx context.Context, event domain.RoleAssignedEvent) error {
	payload := struct {
		UserID     string         `json:"user_id"`
		RoleID     string         `json:"role_id"`
		RoleName   string         `json:"role_name"`
		AssignedBy string         `json:"assigned_by,omitempty"`
		AssignedAt time.Time      `json:"assigned_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		RoleID:     event.RoleID,
		RoleName:   event.RoleName,
		AssignedBy: event.AssignedBy,
		AssignedAt: event.AssignedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "access.role.assigned", event.UserID, event.AssignedAt, payload)
}

// PublishRoleRemoved publishes task.access.role.removed events.
func (p *EventPublisher) PublishRoleRemoved(ctx context.Context, event domain.RoleRemovedEvent) error {
	payload := struct {
		UserID    string         `json:"user_id"`
		RoleID    string         `json:"role_id"`
		RoleName  string         `json:"role_name"`
		RemovedBy string         `json:"removed_by,omitempty"`
		RemovedAt time.Time      `json:"removed_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		UserID:    event.UserID,
		RoleID:    event.RoleID,
		RoleName:  event.RoleName,
		RemovedBy: event.RemovedBy,
		RemovedAt: event.RemovedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "access.role.removed", event.UserID, event.RemovedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
