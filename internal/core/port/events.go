package port

import (
	"context"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

// EventPublisher publishes access-control audit events to the message bus.
type EventPublisher interface {
	PublishRoleAssigned(ctx context.Context, event domain.RoleAssignedEvent) error
	PublishRoleRevoked(ctx context.Context, event domain.RoleRevokedEvent) error
	PublishRolePermissionsChanged(ctx context.Context, event domain.RolePermissionsChangedEvent) error
	PublishBulkOperationCompleted(ctx context.Context, event domain.BulkOperationCompletedEvent) error
}
