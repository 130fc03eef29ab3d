package port

import (
	"context"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

// PermissionFilter narrows permission listings. Nil fields match everything.
type PermissionFilter struct {
	Action   *domain.Action
	Resource *domain.Resource
	IsActive *bool
}

// PermissionRepository manages permission storage. The store enforces the
// (action, resource) uniqueness invariant as a backstop behind the service
// level conflict check.
type PermissionRepository interface {
	Create(ctx context.Context, permission domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	GetByActionResource(ctx context.Context, action domain.Action, resource domain.Resource) (*domain.Permission, error)
	Update(ctx context.Context, permission domain.Permission) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PermissionFilter) ([]domain.Permission, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Permission, error)
	ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error)
	Count(ctx context.Context, filter PermissionFilter) (int, error)
}
