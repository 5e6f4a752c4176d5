package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestAuthorizeMissingUserDenies(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{
		Roles: []string{"board_admin"},
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if decision.Allowed {
		t.Fatal("request without a user identity must deny")
	}
	if decision.Reason != "missing user identity" {
		t.Fatalf("reason = %q", decision.Reason)
	}
}

func TestAuthorizeResourceOwnerShortCircuits(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{
		UserID:          "carol",
		ResourceOwnerID: "carol",
		Permissions:     []string{"boards:delete"},
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("owner must be allowed before any permission check")
	}
	if decision.Reason != "resource owner" {
		t.Fatalf("reason = %q", decision.Reason)
	}
}

func TestAuthorizeRoleClause(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{
		UserID: "bob",
		Roles:  []string{"board_admin", "workspace_admin"},
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if !decision.Allowed || decision.Reason != "role matched" {
		t.Fatalf("decision = %+v", decision)
	}
}

func TestAuthorizePermissionClause(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{
		UserID:      "alice",
		Roles:       []string{"board_admin"},
		Permissions: []string{"cards:read"},
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if !decision.Allowed || decision.Reason != "permission matched" {
		t.Fatalf("decision = %+v", decision)
	}
}

func TestAuthorizeMinimumRoleClause(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{
		UserID:      "bob",
		MinimumRole: "board_member",
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if !decision.Allowed || decision.Reason != "minimum role level met" {
		t.Fatalf("decision = %+v", decision)
	}
}

func TestAuthorizeNoMatchingClauseDenies(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{
		UserID:      "alice",
		Roles:       []string{"board_admin"},
		Permissions: []string{"boards:delete"},
		MinimumRole: "board_admin",
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if decision.Allowed {
		t.Fatal("no clause matches, request must deny")
	}
}

func TestAuthorizeEmptyRequestDenies(t *testing.T) {
	f := newAccessFixture()

	decision, err := f.svc.Authorize(context.Background(), AccessRequest{UserID: "bob"})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if decision.Allowed {
		t.Fatal("request with no clauses must deny")
	}
}

func TestAuthorizeStorageErrorAborts(t *testing.T) {
	f := newAccessFixture()
	f.roles.listByUserErr = errors.New("connection reset")

	_, err := f.svc.Authorize(context.Background(), AccessRequest{
		UserID: "alice",
		Roles:  []string{"board_member"},
	})
	if err == nil {
		t.Fatal("storage errors must abort evaluation, never allow")
	}
}
