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

// RoleRepository implements port.RoleRepository over PostgreSQL. Permission
// membership lives in access.role_permissions; users reference roles through
// access.users.role_id, so assignment counts are resolved by query here.
type RoleRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a role repository instance.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *RoleRepository) WithTx(tx pgx.Tx) *RoleRepository {
	if tx == nil {
		return r
	}
	return &RoleRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new role row and its permission links, if any.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert("access.roles").
		Columns(
			"id", "name", "display_name", "description", "type", "scope",
			"is_active", "is_default", "is_system_role", "priority",
			"metadata", "created_at", "updated_at",
		).
		Values(
			role.ID,
			role.Name,
			role.DisplayName,
			role.Description,
			role.Type,
			role.Scope,
			role.IsActive,
			role.IsDefault,
			role.IsSystemRole,
			role.Priority,
			role.Metadata,
			role.CreatedAt,
			role.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role: %w", err)
	}

	if len(role.Permissions) > 0 {
		ids := make([]string, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			ids = append(ids, p.ID)
		}
		if err := r.insertPermissionLinks(ctx, role.ID, ids); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a role by its ID. The permission set is not loaded here;
// callers that need it use PermissionRepository.ListByRole.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	stmt, args, err := r.selectRoles().
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by id sql: %w", err)
	}

	return r.scanOne(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByName retrieves a role by its unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	stmt, args, err := r.selectRoles().
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by name sql: %w", err)
	}

	return r.scanOne(r.exec.QueryRow(ctx, stmt, args...))
}

// Update modifies an existing role's mutable fields.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Update("access.roles").
		Set("display_name", role.DisplayName).
		Set("description", role.Description).
		Set("scope", role.Scope).
		Set("is_active", role.IsActive).
		Set("is_default", role.IsDefault).
		Set("priority", role.Priority).
		Set("metadata", role.Metadata).
		Set("updated_at", role.UpdatedAt).
		Where(squirrel.Eq{"id": role.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a role by ID. Permission links cascade via FK; user
// references must be cleared by the caller beforehand.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("access.roles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List retrieves roles matching the filter, ordered by priority descending
// then name.
func (r *RoleRepository) List(ctx context.Context, filter port.RoleFilter) ([]domain.Role, error) {
	query := r.selectRoles().OrderBy("priority DESC", "name ASC")
	if filter.Type != nil {
		query = query.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	if filter.IsSystemRole != nil {
		query = query.Where(squirrel.Eq{"is_system_role": *filter.IsSystemRole})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		role, err := scanRoleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, *role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// SetPermissions replaces the role's permission links with exactly the
// provided set.
func (r *RoleRepository) SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	stmt, args, err := r.builder.Delete("access.role_permissions").
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear role permissions sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}

	if len(permissionIDs) == 0 {
		return nil
	}

	return r.insertPermissionLinks(ctx, roleID, permissionIDs)
}

// AddPermissions links the given permissions to the role, skipping links that
// already exist. Returns the number of links actually added.
func (r *RoleRepository) AddPermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}

	query := r.builder.Insert("access.role_permissions").
		Columns("role_id", "permission_id")
	for _, permissionID := range permissionIDs {
		query = query.Values(roleID, permissionID)
	}

	stmt, args, err := query.
		Suffix("ON CONFLICT (role_id, permission_id) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build add role permissions sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("add role permissions: %w", err)
	}

	return int(res.RowsAffected()), nil
}

// RemovePermissions unlinks the given permissions from the role. Returns the
// number of links actually removed.
func (r *RoleRepository) RemovePermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}

	stmt, args, err := r.builder.Delete("access.role_permissions").
		Where(squirrel.Eq{"role_id": roleID, "permission_id": permissionIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build remove role permissions sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("remove role permissions: %w", err)
	}

	return int(res.RowsAffected()), nil
}

// CountAssignedUsers returns how many users currently reference the role.
func (r *RoleRepository) CountAssignedUsers(ctx context.Context, roleID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("access.users").
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count assigned users sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assigned users: %w", err)
	}

	return count, nil
}

func (r *RoleRepository) insertPermissionLinks(ctx context.Context, roleID string, permissionIDs []string) error {
	query := r.builder.Insert("access.role_permissions").
		Columns("role_id", "permission_id")
	for _, permissionID := range permissionIDs {
		query = query.Values(roleID, permissionID)
	}

	stmt, args, err := query.
		Suffix("ON CONFLICT (role_id, permission_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role permissions sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role permissions: %w", err)
	}

	return nil
}

func (r *RoleRepository) selectRoles() squirrel.SelectBuilder {
	return r.builder.Select(
		"id", "name", "display_name", "description", "type", "scope",
		"is_active", "is_default", "is_system_role", "priority",
		"metadata", "created_at", "updated_at",
	).From("access.roles")
}

func (r *RoleRepository) scanOne(row pgx.Row) (*domain.Role, error) {
	role, err := scanRoleRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return role, nil
}

func scanRoleRow(row rowScanner) (*domain.Role, error) {
	var (
		role        domain.Role
		description sql.NullString
	)

	if err := row.Scan(
		&role.ID,
		&role.Name,
		&role.DisplayName,
		&description,
		&role.Type,
		&role.Scope,
		&role.IsActive,
		&role.IsDefault,
		&role.IsSystemRole,
		&role.Priority,
		&role.Metadata,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		role.Description = &description.String
	}

	return &role, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
