package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

// CreatePermissionInput captures the payload for creating a permission.
type CreatePermissionInput struct {
	Action      domain.Action
	Resource    domain.Resource
	Name        string
	Description *string
	Conditions  map[string]any
	IsActive    *bool
}

// UpdatePermissionInput captures the partial payload for updating a
// permission. Nil fields are left untouched.
type UpdatePermissionInput struct {
	Name        *string
	Description *string
	IsActive    *bool
	Conditions  map[string]any
}

// PermissionService manages the permission catalog.
type PermissionService struct {
	permissions port.PermissionRepository
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionRepository) *PermissionService {
	return &PermissionService{permissions: permissions}
}

// CreatePermission provisions a new permission. The (action, resource) pair
// must not already exist in the catalog.
func (s *PermissionService) CreatePermission(ctx context.Context, input CreatePermissionInput) (*domain.Permission, error) {
	if !input.Action.Valid() {
		return nil, ErrInvalidAction
	}
	if !input.Resource.Valid() {
		return nil, ErrInvalidResource
	}

	if existing, err := s.permissions.GetByActionResource(ctx, input.Action, input.Resource); err == nil && existing != nil {
		return nil, ErrPermissionExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup permission by action and resource: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = domain.PermissionKey(input.Action, input.Resource)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now().UTC()
	permission := domain.Permission{
		ID:         uuid.NewString(),
		Action:     input.Action,
		Resource:   input.Resource,
		Name:       name,
		Conditions: input.Conditions,
		IsActive:   isActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			permission.Description = &trimmed
		}
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}

	return &permission, nil
}

// UpdatePermission applies a partial update to an existing permission.
func (s *PermissionService) UpdatePermission(ctx context.Context, id string, input UpdatePermissionInput) (*domain.Permission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("permission id is required")
	}

	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed != "" {
			permission.Name = trimmed
		}
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			permission.Description = nil
		} else {
			permission.Description = &trimmed
		}
	}

	if input.IsActive != nil {
		permission.IsActive = *input.IsActive
	}

	if input.Conditions != nil {
		permission.Conditions = input.Conditions
	}

	permission.UpdatedAt = time.Now().UTC()

	if err := s.permissions.Update(ctx, *permission); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}

	return permission, nil
}

// DeletePermission removes a permission by ID. There is no protection beyond
// existence; roles referencing the permission lose it.
func (s *PermissionService) DeletePermission(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("permission id is required")
	}

	if err := s.permissions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("delete permission: %w", err)
	}

	return nil
}

// ListPermissions returns permissions matching the filter, ordered by
// resource then action.
func (s *PermissionService) ListPermissions(ctx context.Context, filter port.PermissionFilter) ([]domain.Permission, error) {
	permissions, err := s.permissions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}
