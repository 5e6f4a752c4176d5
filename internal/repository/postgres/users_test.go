package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/levidang306/training-be/internal/repository"
)

func TestUserRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	registeredAt := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "username", "email", "is_active", "registered_at"}).
		AddRow("user-1", "alice", "alice@example.com", true, registeredAt)

	mock.ExpectQuery(`SELECT id, username, email, is_active, registered_at FROM access\.users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if user.Username != "alice" || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT id, username, email, is_active, registered_at FROM access\.users WHERE id = \$1`).
		WithArgs("user-404").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "is_active", "registered_at"}))

	_, err = repo.GetByID(context.Background(), "user-404")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_DeleteRoleBearers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`DELETE FROM access\.users WHERE id IN \(SELECT DISTINCT user_id FROM access\.user_roles\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	deleted, err := repo.DeleteRoleBearers(context.Background())
	if err != nil {
		t.Fatalf("DeleteRoleBearers returned error: %v", err)
	}
	if deleted != 4 {
		t.Fatalf("deleted = %d, want 4", deleted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
