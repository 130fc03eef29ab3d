package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahesh553/Resumefinal-sub000/internal/core/domain"
	"github.com/mahesh553/Resumefinal-sub000/internal/core/port"
	"github.com/mahesh553/Resumefinal-sub000/internal/repository"
)

// PermissionRepository implements port.PermissionRepository over PostgreSQL.
// A unique index on (action, resource) backs the catalog's uniqueness
// invariant at the store level.
type PermissionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a permission repository instance.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *PermissionRepository) WithTx(tx pgx.Tx) *PermissionRepository {
	if tx == nil {
		return r
	}
	return &PermissionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new permission row.
func (r *PermissionRepository) Create(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Insert("access.permissions").
		Columns("id", "action", "resource", "name", "description", "is_active", "conditions", "created_at", "updated_at").
		Values(
			permission.ID,
			permission.Action,
			permission.Resource,
			permission.Name,
			permission.Description,
			permission.IsActive,
			permission.Conditions,
			permission.CreatedAt,
			permission.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

// GetByID retrieves a permission by its ID.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	stmt, args, err := r.selectPermissions().
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission by id sql: %w", err)
	}

	return r.scanOne(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByActionResource retrieves a permission by its unique (action, resource) pair.
func (r *PermissionRepository) GetByActionResource(ctx context.Context, action domain.Action, resource domain.Resource) (*domain.Permission, error) {
	stmt, args, err := r.selectPermissions().
		Where(squirrel.Eq{"action": action, "resource": resource}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission by pair sql: %w", err)
	}

	return r.scanOne(r.exec.QueryRow(ctx, stmt, args...))
}

// Update modifies an existing permission.
func (r *PermissionRepository) Update(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Update("access.permissions").
		Set("name", permission.Name).
		Set("description", permission.Description).
		Set("is_active", permission.IsActive).
		Set("conditions", permission.Conditions).
		Set("updated_at", permission.UpdatedAt).
		Where(squirrel.Eq{"id": permission.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update permission sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a permission by ID (cascades to role_permissions via FK).
func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("access.permissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete permission sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List retrieves permissions matching the filter, ordered by resource then action.
func (r *PermissionRepository) List(ctx context.Context, filter port.PermissionFilter) ([]domain.Permission, error) {
	query := r.selectPermissions().OrderBy("resource ASC", "action ASC")
	query = applyPermissionFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// ListByIDs retrieves the permissions with the provided IDs.
func (r *PermissionRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return []domain.Permission{}, nil
	}

	stmt, args, err := r.selectPermissions().
		Where(squirrel.Eq{"id": ids}).
		OrderBy("resource ASC", "action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permissions by ids sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions by ids: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// ListByRole returns permissions attached to a role via role_permissions.
func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select(
		"p.id", "p.action", "p.resource", "p.name", "p.description",
		"p.is_active", "p.conditions", "p.created_at", "p.updated_at",
	).
		From("access.permissions p").
		Join("access.role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.resource ASC", "p.action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permissions by role sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions by role: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// Count returns the number of permissions matching the filter.
func (r *PermissionRepository) Count(ctx context.Context, filter port.PermissionFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("access.permissions")
	query = applyPermissionFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count permissions sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count permissions: %w", err)
	}

	return count, nil
}

func (r *PermissionRepository) selectPermissions() squirrel.SelectBuilder {
	return r.builder.Select(
		"id", "action", "resource", "name", "description",
		"is_active", "conditions", "created_at", "updated_at",
	).From("access.permissions")
}

func applyPermissionFilter(query squirrel.SelectBuilder, filter port.PermissionFilter) squirrel.SelectBuilder {
	if filter.Action != nil {
		query = query.Where(squirrel.Eq{"action": *filter.Action})
	}
	if filter.Resource != nil {
		query = query.Where(squirrel.Eq{"resource": *filter.Resource})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	return query
}

func (r *PermissionRepository) scanOne(row pgx.Row) (*domain.Permission, error) {
	permission, err := scanPermissionRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission: %w", err)
	}
	return permission, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPermissionRow(row rowScanner) (*domain.Permission, error) {
	var (
		permission  domain.Permission
		description sql.NullString
	)

	if err := row.Scan(
		&permission.ID,
		&permission.Action,
		&permission.Resource,
		&permission.Name,
		&description,
		&permission.IsActive,
		&permission.Conditions,
		&permission.CreatedAt,
		&permission.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		permission.Description = &description.String
	}

	return &permission, nil
}

func scanPermissions(rows pgx.Rows) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0)

	for rows.Next() {
		permission, err := scanPermissionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		permissions = append(permissions, *permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
