package usecase

import (
	"context"

	"github.com/levidang306/training-be/internal/core/domain"
)

// AccessRequest describes one guarded operation. Clauses combine with OR
// semantics: ownership, any listed role, any listed permission, or the
// minimum hierarchy level each independently grant access. A request with no
// clauses configured denies, matching the empty-set policy of the underlying
// predicates.
type AccessRequest struct {
	UserID          string
	ResourceOwnerID string
	Roles           []string
	Permissions     []string
	MinimumRole     string
}

// Authorize evaluates the request and returns an explicit allow/deny
// decision with the first matching reason. Storage errors abort evaluation;
// the caller is expected to fail closed.
func (s *AccessService) Authorize(ctx context.Context, req AccessRequest) (domain.Decision, error) {
	if req.UserID == "" {
		return domain.Deny("missing user identity"), nil
	}

	if req.ResourceOwnerID != "" && req.ResourceOwnerID == req.UserID {
		return domain.Allow("resource owner"), nil
	}

	if len(req.Roles) > 0 {
		ok, err := s.HasAnyRole(ctx, req.UserID, req.Roles)
		if err != nil {
			return domain.Decision{}, err
		}
		if ok {
			return domain.Allow("role matched"), nil
		}
	}

	if len(req.Permissions) > 0 {
		ok, err := s.HasAnyPermission(ctx, req.UserID, req.Permissions)
		if err != nil {
			return domain.Decision{}, err
		}
		if ok {
			return domain.Allow("permission matched"), nil
		}
	}

	if req.MinimumRole != "" {
		ok, err := s.HasMinimumRoleLevel(ctx, req.UserID, req.MinimumRole)
		if err != nil {
			return domain.Decision{}, err
		}
		if ok {
			return domain.Allow("minimum role level met"), nil
		}
	}

	return domain.Deny("no matching role, permission, or ownership"), nil
}
