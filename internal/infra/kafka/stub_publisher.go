package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
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
		"expires_at":  event.ExpiresAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("access.role.assigned", event.UserID, event.AssignedAt, payload)
	return nil
}

// PublishRoleRevoked logs access.role.revoked events.
func (p *StubPublisher) PublishRoleRevoked(_ context.Context, event domain.RoleRevokedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"role_id":    event.RoleID,
		"role_name":  event.RoleName,
		"revoked_by": event.RevokedBy,
		"revoked_at": event.RevokedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("access.role.revoked", event.UserID, event.RevokedAt, payload)
	return nil
}

// PublishRolePermissionsChanged logs access.role.permissions_changed events.
func (p *StubPublisher) PublishRolePermissionsChanged(_ context.Context, event domain.RolePermissionsChangedEvent) error {
	payload := map[string]any{
		"role_id":        event.RoleID,
		"role_name":      event.RoleName,
		"operation":      event.Operation,
		"permission_ids": event.PermissionIDs,
		"changed_by":     event.ChangedBy,
		"changed_at":     event.ChangedAt,
	}
	p.logEvent("access.role.permissions_changed", "", event.ChangedAt, payload)
	return nil
}

// PublishBulkOperationCompleted logs access.bulk.completed events.
func (p *StubPublisher) PublishBulkOperationCompleted(_ context.Context, event domain.BulkOperationCompletedEvent) error {
	payload := map[string]any{
		"operation":    event.Operation,
		"permissions":  event.Permissions,
		"success":      event.Success,
		"failed":       event.Failed,
		"performed_by": event.PerformedBy,
		"completed_at": event.CompletedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("access.bulk.completed", "", event.CompletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
