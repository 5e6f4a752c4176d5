package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/levidang306/training-be/internal/core/domain"
	"github.com/levidang306/training-be/internal/repository"
)

func TestRoleRepository_Upsert_KeepsSurvivingID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	description := "board administration"
	rows := pgxmock.NewRows([]string{"id", "name", "description", "level"}).
		AddRow("existing-id", "board_admin", description, 50)

	mock.ExpectQuery(`INSERT INTO access\.roles`).
		WithArgs("new-id", "board_admin", &description, 50).
		WillReturnRows(rows)

	persisted, err := repo.Upsert(context.Background(), domain.Role{
		ID:          "new-id",
		Name:        "board_admin",
		Description: &description,
		Level:       50,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if persisted.ID != "existing-id" {
		t.Fatalf("persisted ID = %q, want the surviving row's id", persisted.ID)
	}
	if persisted.Level != 50 {
		t.Fatalf("persisted level = %d, want 50", persisted.Level)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_GetByName_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectQuery(`SELECT id, name, description, level FROM access\.roles WHERE name = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "level"}))

	_, err = repo.GetByName(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "description", "level"}).
		AddRow("role-1", "admin", nil, 100).
		AddRow("role-2", "guest", nil, 5)

	mock.ExpectQuery(`SELECT id, name, description, level FROM access\.roles ORDER BY level DESC, name ASC`).
		WillReturnRows(rows)

	roles, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	if roles[0].Name != "admin" || roles[0].Level != 100 {
		t.Fatalf("unexpected first role: %+v", roles[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "description", "level"}).
		AddRow("role-1", "board_admin", nil, 50).
		AddRow("role-2", "guest", nil, 5)

	mock.ExpectQuery(`SELECT r\.id, r\.name, r\.description, r\.level FROM access\.roles r JOIN access\.user_roles ur ON ur\.role_id = r\.id WHERE ur\.user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(rows)

	roles, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	if roles[0].Name != "board_admin" || roles[0].Level != 50 {
		t.Fatalf("unexpected first role: %+v", roles[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_AssignToUser_ReportsInsertedRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectExec(`INSERT INTO access\.user_roles`).
		WithArgs("user-1", "role-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := repo.AssignToUser(context.Background(), "role-1", "user-1")
	if err != nil {
		t.Fatalf("AssignToUser returned error: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_AssignToUser_ConflictIsNoOp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectExec(`INSERT INTO access\.user_roles`).
		WithArgs("user-1", "role-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.AssignToUser(context.Background(), "role-1", "user-1")
	if err != nil {
		t.Fatalf("AssignToUser returned error: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("inserted = %d, want 0 for an already-held role", inserted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_RemoveFromUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectExec(`DELETE FROM access\.user_roles WHERE user_id = \$1 AND role_id = \$2`).
		WithArgs("user-1", "role-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	removed, err := repo.RemoveFromUser(context.Background(), "role-1", "user-1")
	if err != nil {
		t.Fatalf("RemoveFromUser returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_ReplacePermissions_RunsInTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM access\.role_permissions WHERE role_id = \$1`).
		WithArgs("role-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO access\.role_permissions \(role_id,permission_id\) VALUES \(\$1,\$2\),\(\$3,\$4\)`).
		WithArgs("role-1", "perm-1", "role-1", "perm-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	if err := repo.ReplacePermissions(context.Background(), "role-1", []string{"perm-1", "perm-2"}); err != nil {
		t.Fatalf("ReplacePermissions returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_ReplacePermissions_EmptySetClearsOnly(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM access\.role_permissions WHERE role_id = \$1`).
		WithArgs("role-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()
	mock.ExpectRollback()

	if err := repo.ReplacePermissions(context.Background(), "role-1", nil); err != nil {
		t.Fatalf("ReplacePermissions returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
