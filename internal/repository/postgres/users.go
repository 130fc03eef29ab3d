package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

// UserRepository implements the narrow user surface the access-control layer
// needs: resolving users and moving their role_id reference. The users table
// is owned by the user service; only role_id and updated_at are written here.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a user repository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(
		"id", "email", "first_name", "last_name", "legacy_role",
		"role_id", "is_active", "created_at", "updated_at",
	).
		From("access.users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var (
		user   domain.User
		roleID sql.NullString
	)

	err = r.exec.QueryRow(ctx, stmt, args...).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.LegacyRole,
		&roleID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if roleID.Valid {
		user.RoleID = &roleID.String
	}

	return &user, nil
}

// SetRole points the user at the given role, overwriting any prior reference.
func (r *UserRepository) SetRole(ctx context.Context, userID, roleID string) error {
	return r.updateRole(ctx, userID, &roleID)
}

// ClearRole removes the user's role reference so legacy evaluation applies.
func (r *UserRepository) ClearRole(ctx context.Context, userID string) error {
	return r.updateRole(ctx, userID, nil)
}

func (r *UserRepository) updateRole(ctx context.Context, userID string, roleID *string) error {
	stmt, args, err := r.builder.Update("access.users").
		Set("role_id", roleID).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
