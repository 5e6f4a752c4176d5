package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/core/port"
	"github.com/levidang306/training-be/internal/repository"
)

// UserRepository provides the user lookups required by the access engine.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a PostgreSQL-backed user repository.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select("id", "username", "email", "is_active", "registered_at").
		From("access.users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by id sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.IsActive, &user.RegisteredAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user by id: %w", err)
	}

	return &user, nil
}

// DeleteRoleBearers removes every user that currently holds at least one role
// and returns the number of deleted rows. Destructive; used only by the
// administrative clean command.
func (r *UserRepository) DeleteRoleBearers(ctx context.Context) (int, error) {
	stmt := "DELETE FROM access.users WHERE id IN (SELECT DISTINCT user_id FROM access.user_roles)"

	res, err := r.exec.Exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("delete role-bearing users: %w", err)
	}

	return int(res.RowsAffected()), nil
}

var _ port.UserRepository = (*UserRepository)(nil)
