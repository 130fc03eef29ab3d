package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

// systemRoleSeed describes one protected role created at bootstrap.
type systemRoleSeed struct {
	name        string
	displayName string
	roleType    domain.RoleType
	priority    int
	isDefault   bool
}

var systemRoleSeeds = []systemRoleSeed{
	{name: "super_admin", displayName: "Super Administrator", roleType: domain.RoleTypeSuperAdmin, priority: 1000},
	{name: "admin", displayName: "Administrator", roleType: domain.RoleTypeAdmin, priority: 800},
	{name: "moderator", displayName: "Moderator", roleType: domain.RoleTypeModerator, priority: 600},
	{name: "user", displayName: "User", roleType: domain.RoleTypeUser, priority: 400, isDefault: true},
	{name: "guest", displayName: "Guest", roleType: domain.RoleTypeGuest, priority: 200},
}

// BootstrapService seeds the permission catalog and system roles.
type BootstrapService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	logger      *zap.Logger
}

// NewBootstrapService constructs a BootstrapService.
func NewBootstrapService(roles port.RoleRepository, permissions port.PermissionRepository, logger *zap.Logger) *BootstrapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BootstrapService{roles: roles, permissions: permissions, logger: logger}
}

// InitializeSystemRoles creates each system role if and only if no role with
// that name exists. Existing entries are never updated, so the call is
// idempotent by role name.
func (s *BootstrapService) InitializeSystemRoles(ctx context.Context) (int, error) {
	created := 0

	for _, seed := range systemRoleSeeds {
		existing, err := s.roles.GetByName(ctx, seed.name)
		if err == nil && existing != nil {
			continue
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return created, fmt.Errorf("lookup role %q: %w", seed.name, err)
		}

		now := time.Now().UTC()
		role := domain.Role{
			ID:           uuid.NewString(),
			Name:         seed.name,
			DisplayName:  seed.displayName,
			Type:         seed.roleType,
			Scope:        domain.RoleScopeGlobal,
			IsActive:     true,
			IsDefault:    seed.isDefault,
			IsSystemRole: true,
			Priority:     seed.priority,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.roles.Create(ctx, role); err != nil {
			return created, fmt.Errorf("create system role %q: %w", seed.name, err)
		}

		created++
		s.logger.Info("created system role",
			zap.String("name", seed.name),
			zap.Int("priority", seed.priority),
		)
	}

	return created, nil
}

// SeedPermissions creates a permission record for every (action, resource)
// pair not already present. Existence is checked per pair, so repeated calls
// never produce duplicates.
func (s *BootstrapService) SeedPermissions(ctx context.Context) (int, error) {
	created := 0

	for _, resource := range domain.Resources {
		for _, action := range domain.Actions {
			existing, err := s.permissions.GetByActionResource(ctx, action, resource)
			if err == nil && existing != nil {
				continue
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return created, fmt.Errorf("lookup permission %s: %w", domain.PermissionKey(action, resource), err)
			}

			description := fmt.Sprintf("Allows %s on %s", action, resource)
			now := time.Now().UTC()
			permission := domain.Permission{
				ID:          uuid.NewString(),
				Action:      action,
				Resource:    resource,
				Name:        domain.PermissionKey(action, resource),
				Description: &description,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if err := s.permissions.Create(ctx, permission); err != nil {
				return created, fmt.Errorf("create permission %s: %w", permission.Name, err)
			}

			created++
		}
	}

	if created > 0 {
		s.logger.Info("seeded permission catalog", zap.Int("created", created))
	}

	return created, nil
}
