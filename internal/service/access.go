package service

import (
	"context"
	"fmt"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"

	"github.com/google/uuid"
)

// Capability is a single precondition in the guard chain
type Capability int

const (
	Authenticated Capability = iota
	Unauthenticated
	OrganizationMember
	OrganizationOwner
	TeamMember
	TeamOwner
)

func (c Capability) String() string {
	switch c {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	case OrganizationMember:
		return "organization_member"
	case OrganizationOwner:
		return "organization_owner"
	case TeamMember:
		return "team_member"
	case TeamOwner:
		return "team_owner"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// scoped reports whether the capability needs a target organization or team
func (c Capability) scoped() bool {
	return c >= OrganizationMember
}

// Principal is the authenticated caller
type Principal struct {
	UserID   uuid.UUID
	Username string
}

// AccessService evaluates guard chains against the membership ledger
type AccessService struct {
	memberships MembershipServiceInterface
}

// NewAccessService creates a new access service
func NewAccessService(memberships MembershipServiceInterface) *AccessService {
	return &AccessService{memberships: memberships}
}

// Check evaluates caps in order and stops at the first failure.
// Authentication is always checked before any membership or ownership predicate,
// and membership failures are reported as ErrScopeNotFound so existence is not revealed.
func (s *AccessService) Check(ctx context.Context, principal *Principal, scopeID uuid.UUID, caps ...Capability) error {
	for _, c := range caps {
		if c.scoped() && principal == nil {
			return apperrors.ErrAuthenticationRequired
		}
	}

	for _, c := range caps {
		if err := s.check(ctx, principal, scopeID, c); err != nil {
			logger.WithContext(ctx).WithFields(map[string]interface{}{
				"capability": c.String(),
				"scope_id":   scopeID,
			}).Debugf("Access denied: %v", err)
			return err
		}
	}
	return nil
}

func (s *AccessService) check(ctx context.Context, principal *Principal, scopeID uuid.UUID, c Capability) error {
	var (
		ok  bool
		err error
	)
	switch c {
	case Authenticated:
		if principal == nil {
			return apperrors.ErrAuthenticationRequired
		}
		return nil
	case Unauthenticated:
		if principal != nil {
			return apperrors.ErrAlreadyAuthenticated
		}
		return nil
	case OrganizationMember:
		ok, err = s.memberships.IsMember(ctx, ScopeOrganization, scopeID, principal.UserID)
	case OrganizationOwner:
		ok, err = s.memberships.IsOwner(ctx, ScopeOrganization, scopeID, principal.UserID)
	case TeamMember:
		ok, err = s.memberships.IsMember(ctx, ScopeTeam, scopeID, principal.UserID)
	case TeamOwner:
		ok, err = s.memberships.IsOwner(ctx, ScopeTeam, scopeID, principal.UserID)
	default:
		return fmt.Errorf("unknown capability %s", c)
	}
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", c, err)
	}
	if !ok {
		return apperrors.ErrScopeNotFound
	}
	return nil
}
