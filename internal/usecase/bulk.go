package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

// BulkOperation selects the direction of a bulk permission operation.
type BulkOperation string

const (
	BulkOperationGrant  BulkOperation = "grant"
	BulkOperationRevoke BulkOperation = "revoke"
)

// BulkPermissionInput captures a batch grant/revoke request. Permissions are
// canonical "action:resource" keys.
type BulkPermissionInput struct {
	Operation   BulkOperation
	UserIDs     []string
	Permissions []string
	Metadata    map[string]any
}

// BulkResult reports only aggregate counts. Per-item causes are not retained,
// which limits auditability of individual failures.
type BulkResult struct {
	Success int
	Failed  int
}

// BulkService iterates bulk permission operations with per-user isolation:
// an individual failure never aborts the batch, and no transaction spans it.
// Under the single-role-per-user model the operation has no effect on role
// membership; it validates inputs, resolves each user, and emits an audit
// event with the aggregate outcome.
type BulkService struct {
	users       port.UserRepository
	permissions port.PermissionRepository
	events      port.EventPublisher
	logger      *zap.Logger
}

// NewBulkService constructs a BulkService.
func NewBulkService(users port.UserRepository, permissions port.PermissionRepository, events port.EventPublisher, logger *zap.Logger) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkService{users: users, permissions: permissions, events: events, logger: logger}
}

// BulkPermissionOperation processes every user in the batch, counting
// successes and failures.
func (s *BulkService) BulkPermissionOperation(ctx context.Context, actorID string, input BulkPermissionInput) (BulkResult, error) {
	var result BulkResult

	switch input.Operation {
	case BulkOperationGrant, BulkOperationRevoke:
	default:
		return result, ErrInvalidOperation
	}

	if len(input.UserIDs) == 0 {
		return result, fmt.Errorf("user ids are required")
	}

	if err := s.validatePermissionKeys(ctx, input.Permissions); err != nil {
		return result, err
	}

	for _, userID := range input.UserIDs {
		trimmed := strings.TrimSpace(userID)
		if trimmed == "" {
			result.Failed++
			continue
		}

		if _, err := s.users.GetByID(ctx, trimmed); err != nil {
			result.Failed++
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("bulk operation user lookup failed",
					zap.String("user_id", trimmed),
					zap.Error(err),
				)
			}
			continue
		}

		result.Success++
	}

	s.publishCompleted(ctx, actorID, input, result)

	return result, nil
}

// validatePermissionKeys parses each "action:resource" key and confirms the
// pair exists in the catalog.
func (s *BulkService) validatePermissionKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("permissions are required")
	}

	for _, key := range keys {
		parts := strings.SplitN(strings.TrimSpace(key), ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("malformed permission key %q", key)
		}

		action := domain.Action(parts[0])
		resource := domain.Resource(parts[1])
		if !action.Valid() {
			return ErrInvalidAction
		}
		if !resource.Valid() {
			return ErrInvalidResource
		}

		if _, err := s.permissions.GetByActionResource(ctx, action, resource); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPermissionNotFound
			}
			return fmt.Errorf("lookup permission %q: %w", key, err)
		}
	}

	return nil
}

func (s *BulkService) publishCompleted(ctx context.Context, actorID string, input BulkPermissionInput, result BulkResult) {
	if s.events == nil {
		return
	}

	event := domain.BulkOperationCompletedEvent{
		EventID:     uuid.NewString(),
		Operation:   string(input.Operation),
		Permissions: input.Permissions,
		Success:     result.Success,
		Failed:      result.Failed,
		PerformedBy: actorID,
		CompletedAt: time.Now().UTC(),
		Metadata:    input.Metadata,
	}

	if err := s.events.PublishBulkOperationCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish bulk operation event", zap.Error(err))
	}
}
