package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/levidang306/training-be/internal/core/domain"
)

func TestPermissionRepository_Upsert_RefreshesDescription(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPermissionRepository(mock)

	description := "Create cards"
	rows := pgxmock.NewRows([]string{"id", "name", "description"}).
		AddRow("perm-1", "cards:create", description)

	mock.ExpectQuery(`INSERT INTO access\.permissions`).
		WithArgs("perm-new", "cards:create", &description).
		WillReturnRows(rows)

	persisted, err := repo.Upsert(context.Background(), domain.Permission{
		ID:          "perm-new",
		Name:        "cards:create",
		Description: &description,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if persisted.ID != "perm-1" {
		t.Fatalf("persisted ID = %q, want the surviving row's id", persisted.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPermissionRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "description"}).
		AddRow("perm-1", "boards:read", nil).
		AddRow("perm-2", "cards:create", nil)

	mock.ExpectQuery(`SELECT id, name, description FROM access\.permissions ORDER BY name ASC`).
		WillReturnRows(rows)

	perms, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}
	if perms[0].Name != "boards:read" {
		t.Fatalf("unexpected first permission: %+v", perms[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_ListByRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPermissionRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "description"}).
		AddRow("perm-1", "boards:read", nil).
		AddRow("perm-2", "cards:create", nil)

	mock.ExpectQuery(`SELECT p\.id, p\.name, p\.description FROM access\.permissions p JOIN access\.role_permissions rp ON rp\.permission_id = p\.id WHERE rp\.role_id = \$1`).
		WithArgs("role-1").
		WillReturnRows(rows)

	perms, err := repo.ListByRole(context.Background(), "role-1")
	if err != nil {
		t.Fatalf("ListByRole returned error: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}
	if perms[1].Name != "cards:create" {
		t.Fatalf("unexpected second permission: %+v", perms[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_ListByRole_UnknownRoleIsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPermissionRepository(mock)

	mock.ExpectQuery(`SELECT p\.id, p\.name, p\.description FROM access\.permissions p`).
		WithArgs("role-404").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}))

	perms, err := repo.ListByRole(context.Background(), "role-404")
	if err != nil {
		t.Fatalf("ListByRole returned error: %v", err)
	}
	if len(perms) != 0 {
		t.Fatalf("expected empty slice, got %v", perms)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_DeleteAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPermissionRepository(mock)

	mock.ExpectExec(`DELETE FROM access\.permissions`).
		WillReturnResult(pgxmock.NewResult("DELETE", 31))

	if err := repo.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
