package port

import (
	"context"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
)

// UserRepository exposes the persistence behavior the access-control layer
// needs from the user store. Full user CRUD lives with the user service; this
// subsystem only resolves users and moves their role reference.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// SetRole overwrites any prior assignment (last-write-wins).
	SetRole(ctx context.Context, userID, roleID string) error
	// ClearRole reverts the user to legacy-role evaluation.
	ClearRole(ctx context.Context, userID string) error
}
