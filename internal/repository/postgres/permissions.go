package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
	"github.com/levidang306/training-be/internal/repository"
)

// PermissionRepository implements port.PermissionRepository over PostgreSQL.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a permission repository instance.
func NewPermissionRepository(exec pgExecutor) *PermissionRepository {
	return &PermissionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts the permission or refreshes its description when the name is
// already catalogued. Returns the persisted row.
func (r *PermissionRepository) Upsert(ctx context.Context, permission domain.Permission) (*domain.Permission, error) {
	stmt, args, err := r.builder.Insert("access.permissions").
		Columns("id", "name", "description").
		Values(permission.ID, permission.Name, permission.Description).
		Suffix("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description").
		Suffix("RETURNING id, name, description").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert permission sql: %w", err)
	}

	return scanPermission(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns the full permission catalog sorted by name.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "name", "description").
		From("access.permissions").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	return collectPermissions(rows)
}

// ListByRole returns permissions mapped to a role via role_permissions.
// Unknown roles simply yield an empty slice.
func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("p.id", "p.name", "p.description").
		From("access.permissions p").
		Join("access.role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permissions by role sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions by role: %w", err)
	}
	defer rows.Close()

	return collectPermissions(rows)
}

// DeleteAll wipes the permission catalog (cascades out of role_permissions via FK).
func (r *PermissionRepository) DeleteAll(ctx context.Context) error {
	stmt, args, err := r.builder.Delete("access.permissions").ToSql()
	if err != nil {
		return fmt.Errorf("build delete all permissions sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete all permissions: %w", err)
	}

	return nil
}

func scanPermission(row pgx.Row) (*domain.Permission, error) {
	var (
		permission  domain.Permission
		description sql.NullString
	)

	if err := row.Scan(&permission.ID, &permission.Name, &description); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission: %w", err)
	}

	if description.Valid {
		permission.Description = &description.String
	}

	return &permission, nil
}

func collectPermissions(rows pgx.Rows) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0)
	for rows.Next() {
		var (
			permission  domain.Permission
			description sql.NullString
		)
		if err := rows.Scan(&permission.ID, &permission.Name, &description); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		if description.Valid {
			desc := description.String
			permission.Description = &desc
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
