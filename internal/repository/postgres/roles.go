package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
	"github.com/levidang306/training-be/internal/repository"
)

// RoleRepository implements role persistence operations.
type RoleRepository struct {
	exec    pgTxBeginner
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(exec pgTxBeginner) *RoleRepository {
	return &RoleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts the role or, when a role with the same name exists, overwrites
// its description and hierarchy level in place. The persisted row is returned
// so callers observe the surviving role ID on conflict.
func (r *RoleRepository) Upsert(ctx context.Context, role domain.Role) (*domain.Role, error) {
	stmt, args, err := r.builder.Insert("access.roles").
		Columns("id", "name", "description", "level").
		Values(role.ID, role.Name, role.Description, role.Level).
		Suffix("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, level = EXCLUDED.level").
		Suffix("RETURNING id, name, description, level").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert role sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanRole(row)
}

// GetByName retrieves a role by its unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "level").
		From("access.roles").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by name sql: %w", err)
	}

	role, err := scanRole(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}

	return role, nil
}

// List retrieves all roles sorted by descending hierarchy level.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "level").
		From("access.roles").
		OrderBy("level DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	return collectRoles(rows)
}

// ReplacePermissions overwrites the role's permission set with exactly the
// provided permissions. Runs inside a transaction so a re-seed never leaves a
// partial set behind.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	tx, err := r.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace permissions tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delStmt, delArgs, err := r.builder.Delete("access.role_permissions").
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear role permissions sql: %w", err)
	}

	if _, err := tx.Exec(ctx, delStmt, delArgs...); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}

	if len(permissionIDs) > 0 {
		query := r.builder.Insert("access.role_permissions").
			Columns("role_id", "permission_id")

		for _, permissionID := range permissionIDs {
			query = query.Values(roleID, permissionID)
		}

		insStmt, insArgs, err := query.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("build assign role permissions sql: %w", err)
		}

		if _, err := tx.Exec(ctx, insStmt, insArgs...); err != nil {
			return fmt.Errorf("assign role permissions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace permissions tx: %w", err)
	}

	return nil
}

// ListByUser returns roles assigned to the specified user.
func (r *RoleRepository) ListByUser(ctx context.Context, userID string) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select("r.id", "r.name", "r.description", "r.level").
		From("access.roles r").
		Join("access.user_roles ur ON ur.role_id = r.id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("r.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build roles by user sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles by user: %w", err)
	}
	defer rows.Close()

	return collectRoles(rows)
}

// AssignToUser links the role to the user and returns the number of rows
// inserted. Zero means the user already held the role.
func (r *RoleRepository) AssignToUser(ctx context.Context, roleID, userID string) (int, error) {
	stmt, args, err := r.builder.Insert("access.user_roles").
		Columns("user_id", "role_id", "assigned_at").
		Values(userID, roleID, time.Now().UTC()).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build assign role to user sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("assign role to user: %w", err)
	}

	return int(res.RowsAffected()), nil
}

// RemoveFromUser unlinks the role from the user and returns the number of
// rows deleted. Zero means the user did not hold the role.
func (r *RoleRepository) RemoveFromUser(ctx context.Context, roleID, userID string) (int, error) {
	stmt, args, err := r.builder.Delete("access.user_roles").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build remove role from user sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("remove role from user: %w", err)
	}

	return int(res.RowsAffected()), nil
}

// DeleteAll wipes every role (cascades to user_roles and role_permissions via FK).
func (r *RoleRepository) DeleteAll(ctx context.Context) error {
	stmt, args, err := r.builder.Delete("access.roles").ToSql()
	if err != nil {
		return fmt.Errorf("build delete all roles sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete all roles: %w", err)
	}

	return nil
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var (
		role        domain.Role
		description sql.NullString
	)

	if err := row.Scan(&role.ID, &role.Name, &description, &role.Level); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	if description.Valid {
		role.Description = &description.String
	}

	return &role, nil
}

func collectRoles(rows pgx.Rows) ([]domain.Role, error) {
	roles := make([]domain.Role, 0)
	for rows.Next() {
		var (
			role        domain.Role
			description sql.NullString
		)
		if err := rows.Scan(&role.ID, &role.Name, &description, &role.Level); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if description.Valid {
			desc := description.String
			role.Description = &desc
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
