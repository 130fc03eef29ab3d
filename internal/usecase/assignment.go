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

// AssignRoleInput captures the payload for assigning a role to a user.
// ExpiresAt is recorded on the audit event but not consulted by the
// evaluator; time-bounded assignments are not an active requirement.
type AssignRoleInput struct {
	UserID    string
	RoleID    string
	ExpiresAt *time.Time
	Metadata  map[string]any
}

// AssignmentService moves the single role reference a user holds.
type AssignmentService struct {
	users  port.UserRepository
	roles  port.RoleRepository
	events port.EventPublisher
	logger *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(users port.UserRepository, roles port.RoleRepository, events port.EventPublisher, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{users: users, roles: roles, events: events, logger: logger}
}

// AssignRole points the user at the role, overwriting any prior assignment.
// Last write wins; there is no assignment history.
func (s *AssignmentService) AssignRole(ctx context.Context, actorID string, input AssignRoleInput) error {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	roleID := strings.TrimSpace(input.RoleID)
	if roleID == "" {
		return fmt.Errorf("role id is required")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("lookup role: %w", err)
	}

	if err := s.users.SetRole(ctx, userID, role.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("assign role to user: %w", err)
	}

	s.publishAssigned(ctx, userID, role, actorID, input)

	return nil
}

// RemoveRole clears the user's resolved role, reverting them to legacy-role
// evaluation.
func (s *AssignmentService) RemoveRole(ctx context.Context, actorID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.ClearRole(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("clear user role: %w", err)
	}

	s.publishRevoked(ctx, user, actorID)

	return nil
}

func (s *AssignmentService) publishAssigned(ctx context.Context, userID string, role *domain.Role, actorID string, input AssignRoleInput) {
	if s.events == nil {
		return
	}

	event := domain.RoleAssignedEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		RoleID:     role.ID,
		RoleName:   role.Name,
		AssignedBy: actorID,
		AssignedAt: time.Now().UTC(),
		ExpiresAt:  input.ExpiresAt,
		Metadata:   input.Metadata,
	}

	if err := s.events.PublishRoleAssigned(ctx, event); err != nil {
		s.logger.Warn("failed to publish role assigned event",
			zap.String("user_id", userID),
			zap.String("role_id", role.ID),
			zap.Error(err),
		)
	}
}

func (s *AssignmentService) publishRevoked(ctx context.Context, user *domain.User, actorID string) {
	if s.events == nil {
		return
	}

	event := domain.RoleRevokedEvent{
		EventID:   uuid.NewString(),
		UserID:    user.ID,
		RevokedBy: actorID,
		RevokedAt: time.Now().UTC(),
	}

	if user.RoleID != nil {
		event.RoleID = *user.RoleID
		if role, err := s.roles.GetByID(ctx, *user.RoleID); err == nil {
			event.RoleName = role.Name
		}
	}

	if err := s.events.PublishRoleRevoked(ctx, event); err != nil {
		s.logger.Warn("failed to publish role revoked event",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}
