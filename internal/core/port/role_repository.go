package port

import (
	"context"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

// RoleFilter narrows role listings. Nil fields match everything.
type RoleFilter struct {
	Type         *domain.RoleType
	IsActive     *bool
	IsSystemRole *bool
}

// RoleRepository handles role CRUD and permission membership.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	Update(ctx context.Context, role domain.Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RoleFilter) ([]domain.Role, error)
	SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error
	AddPermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error)
	RemovePermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error)
	// CountAssignedUsers resolves the reverse side of the user→role reference
	// by query; roles never hold user back-pointers.
	CountAssignedUsers(ctx context.Context, roleID string) (int, error)
}
