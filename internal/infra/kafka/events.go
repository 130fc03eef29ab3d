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

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/infra/config"
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

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

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

// PublishRoleAssigned publishes access.role.assigned events.
func (p *EventPublisher) PublishRoleAssigned(ctx context.Context, event domain.RoleAssignedEvent) error {
	payload := struct {
		UserID     string         `json:"user_id"`
		RoleID     string         `json:"role_id"`
		RoleName   string         `json:"role_name"`
		AssignedBy string         `json:"assigned_by"`
		AssignedAt time.Time      `json:"assigned_at"`
		ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		RoleID:     event.RoleID,
		RoleName:   event.RoleName,
		AssignedBy: event.AssignedBy,
		AssignedAt: event.AssignedAt.UTC(),
		ExpiresAt:  event.ExpiresAt,
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "access.role.assigned", event.UserID, event.AssignedAt, payload)
}

// PublishRoleRevoked publishes access.role.revoked events.
func (p *EventPublisher) PublishRoleRevoked(ctx context.Context, event domain.RoleRevokedEvent) error {
	payload := struct {
		UserID    string         `json:"user_id"`
		RoleID    string         `json:"role_id,omitempty"`
		RoleName  string         `json:"role_name,omitempty"`
		RevokedBy string         `json:"revoked_by"`
		RevokedAt time.Time      `json:"revoked_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		UserID:    event.UserID,
		RoleID:    event.RoleID,
		RoleName:  event.RoleName,
		RevokedBy: event.RevokedBy,
		RevokedAt: event.RevokedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "access.role.revoked", event.UserID, event.RevokedAt, payload)
}

// PublishRolePermissionsChanged publishes access.role.permissions_changed events.
func (p *EventPublisher) PublishRolePermissionsChanged(ctx context.Context, event domain.RolePermissionsChangedEvent) error {
	payload := struct {
		RoleID        string    `json:"role_id"`
		RoleName      string    `json:"role_name"`
		Operation     string    `json:"operation"`
		PermissionIDs []string  `json:"permission_ids"`
		ChangedBy     string    `json:"changed_by"`
		ChangedAt     time.Time `json:"changed_at"`
	}{
		RoleID:        event.RoleID,
		RoleName:      event.RoleName,
		Operation:     event.Operation,
		PermissionIDs: event.PermissionIDs,
		ChangedBy:     event.ChangedBy,
		ChangedAt:     event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "access.role.permissions_changed", "", event.ChangedAt, payload)
}

// PublishBulkOperationCompleted publishes access.bulk.completed events.
func (p *EventPublisher) PublishBulkOperationCompleted(ctx context.Context, event domain.BulkOperationCompletedEvent) error {
	payload := struct {
		Operation   string         `json:"operation"`
		Permissions []string       `json:"permissions"`
		Success     int            `json:"success"`
		Failed      int            `json:"failed"`
		PerformedBy string         `json:"performed_by"`
		CompletedAt time.Time      `json:"completed_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		Operation:   event.Operation,
		Permissions: event.Permissions,
		Success:     event.Success,
		Failed:      event.Failed,
		PerformedBy: event.PerformedBy,
		CompletedAt: event.CompletedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "access.bulk.completed", "", event.CompletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
