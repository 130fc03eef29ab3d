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

// PermissionSetOperation selects how UpdateRolePermissions mutates the set.
type PermissionSetOperation string

const (
	PermissionSetReplace PermissionSetOperation = "set"
	PermissionSetAdd     PermissionSetOperation = "add"
	PermissionSetRemove  PermissionSetOperation = "remove"
)

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Name          string
	DisplayName   string
	Description   *string
	Type          domain.RoleType
	Scope         domain.RoleScope
	Priority      *int
	IsDefault     bool
	PermissionIDs []string
	Metadata      map[string]any
}

// UpdateRoleInput captures the partial payload for updating a role. Nil
// fields are left untouched.
type UpdateRoleInput struct {
	DisplayName *string
	Description *string
	Scope       *domain.RoleScope
	IsActive    *bool
	IsDefault   *bool
	Priority    *int
	Metadata    map[string]any
}

// RoleService manages the role registry.
type RoleService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	events      port.EventPublisher
	logger      *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository, permissions port.PermissionRepository, events port.EventPublisher, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{roles: roles, permissions: permissions, events: events, logger: logger}
}

// CreateRole provisions a new role. Roles are always created as non-system
// roles; system roles only come from bootstrap.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}

	if !input.Type.Valid() {
		return nil, ErrInvalidRoleType
	}

	scope := input.Scope
	if scope == "" {
		scope = domain.RoleScopeGlobal
	}
	if !scope.Valid() {
		return nil, ErrInvalidRoleScope
	}

	if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by name: %w", err)
	}

	permissions, err := s.resolvePermissions(ctx, input.PermissionIDs)
	if err != nil {
		return nil, err
	}

	priority := 0
	if input.Priority != nil {
		priority = *input.Priority
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}

	now := time.Now().UTC()
	role := domain.Role{
		ID:           uuid.NewString(),
		Name:         name,
		DisplayName:  displayName,
		Type:         input.Type,
		Scope:        scope,
		IsActive:     true,
		IsDefault:    input.IsDefault,
		IsSystemRole: false,
		Priority:     priority,
		Metadata:     input.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			role.Description = &trimmed
		}
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	if len(permissions) > 0 {
		ids := make([]string, 0, len(permissions))
		for _, p := range permissions {
			ids = append(ids, p.ID)
		}
		if err := s.roles.SetPermissions(ctx, role.ID, ids); err != nil {
			return nil, fmt.Errorf("attach role permissions: %w", err)
		}
	}

	role.Permissions = permissions
	return &role, nil
}

// GetRole retrieves a role by ID with its permission set loaded.
func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	permissions, err := s.permissions.ListByRole(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	role.Permissions = permissions

	return role, nil
}

// UpdateRole applies a partial update. Deactivating a system role is
// rejected.
func (s *RoleService) UpdateRole(ctx context.Context, id string, input UpdateRoleInput) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	if role.IsSystemRole && input.IsActive != nil && !*input.IsActive {
		return nil, ErrSystemRoleProtected
	}

	if input.DisplayName != nil {
		trimmed := strings.TrimSpace(*input.DisplayName)
		if trimmed != "" {
			role.DisplayName = trimmed
		}
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			role.Description = nil
		} else {
			role.Description = &trimmed
		}
	}

	if input.Scope != nil {
		if !input.Scope.Valid() {
			return nil, ErrInvalidRoleScope
		}
		role.Scope = *input.Scope
	}

	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}

	if input.IsDefault != nil {
		role.IsDefault = *input.IsDefault
	}

	if input.Priority != nil {
		role.Priority = *input.Priority
	}

	if input.Metadata != nil {
		role.Metadata = input.Metadata
	}

	role.UpdatedAt = time.Now().UTC()

	if err := s.roles.Update(ctx, *role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a role. System roles and roles with assigned users are
// protected; the assigned-user count is resolved by query.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.roles.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("get role: %w", err)
	}

	if role.IsSystemRole {
		return ErrSystemRoleProtected
	}

	assigned, err := s.roles.CountAssignedUsers(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("count assigned users: %w", err)
	}
	if assigned > 0 {
		return ErrRoleHasUsers
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("delete role: %w", err)
	}

	return nil
}

// UpdateRolePermissions mutates the role's permission set: set replaces the
// whole set, add unions in new permissions, remove subtracts the named ones.
func (s *RoleService) UpdateRolePermissions(ctx context.Context, actorID, roleID string, permissionIDs []string, operation PermissionSetOperation) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, strings.TrimSpace(roleID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	permissions, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(permissions))
	for _, p := range permissions {
		ids = append(ids, p.ID)
	}

	switch operation {
	case PermissionSetReplace:
		if err := s.roles.SetPermissions(ctx, role.ID, ids); err != nil {
			return nil, fmt.Errorf("set role permissions: %w", err)
		}
	case PermissionSetAdd:
		if _, err := s.roles.AddPermissions(ctx, role.ID, ids); err != nil {
			return nil, fmt.Errorf("add role permissions: %w", err)
		}
	case PermissionSetRemove:
		if _, err := s.roles.RemovePermissions(ctx, role.ID, ids); err != nil {
			return nil, fmt.Errorf("remove role permissions: %w", err)
		}
	default:
		return nil, ErrInvalidOperation
	}

	current, err := s.permissions.ListByRole(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	role.Permissions = current

	s.publishPermissionsChanged(ctx, role, string(operation), ids, actorID)

	return role, nil
}

// ListRoles returns roles matching the filter, ordered by priority
// descending then name.
func (s *RoleService) ListRoles(ctx context.Context, filter port.RoleFilter) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// resolvePermissions loads the referenced permissions, failing if any id is
// unknown.
func (s *RoleService) resolvePermissions(ctx context.Context, permissionIDs []string) ([]domain.Permission, error) {
	unique := make([]string, 0, len(permissionIDs))
	seen := make(map[string]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}

	if len(unique) == 0 {
		return nil, nil
	}

	permissions, err := s.permissions.ListByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}

	if len(permissions) != len(unique) {
		return nil, ErrPermissionNotFound
	}

	return permissions, nil
}

func (s *RoleService) publishPermissionsChanged(ctx context.Context, role *domain.Role, operation string, permissionIDs []string, actorID string) {
	if s.events == nil {
		return
	}

	event := domain.RolePermissionsChangedEvent{
		EventID:       uuid.NewString(),
		RoleID:        role.ID,
		RoleName:      role.Name,
		Operation:     operation,
		PermissionIDs: permissionIDs,
		ChangedBy:     actorID,
		ChangedAt:     time.Now().UTC(),
	}

	if err := s.events.PublishRolePermissionsChanged(ctx, event); err != nil {
		s.logger.Warn("failed to publish role permissions changed event",
			zap.String("role_id", role.ID),
			zap.Error(err),
		)
	}
}
