package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamspace-backend/internal/database"
	"teamspace-backend/internal/database/models"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope names one of the two membership-bearing entity kinds
type Scope string

const (
	ScopeOrganization Scope = "organization"
	ScopeTeam         Scope = "team"
)

// MembershipService owns the membership lifecycle: join, invite, leave and remove.
// Every ledger write and its counter adjustment share one transaction.
type MembershipService struct {
	users       repository.UserRepositoryInterface
	orgs        repository.OrganizationRepositoryInterface
	teams       repository.TeamRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	txManager   database.TransactionManagerInterface
	validator   *validator.Validate
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	users repository.UserRepositoryInterface,
	orgs repository.OrganizationRepositoryInterface,
	teams repository.TeamRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
	txManager database.TransactionManagerInterface,
	validator *validator.Validate,
) *MembershipService {
	return &MembershipService{
		users:       users,
		orgs:        orgs,
		teams:       teams,
		memberships: memberships,
		txManager:   txManager,
		validator:   validator,
	}
}

// InviteRequest adds a user to a scope by email
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RemoveMemberRequest removes a user from a scope by id
type RemoveMemberRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

// MembershipResponse is a ledger row
type MembershipResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	ScopeID  uuid.UUID `json:"scope_id"`
	Scope    Scope     `json:"scope"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberResponse is a member listing entry. Email and credentials are never included.
type MemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	JoinedAt  time.Time `json:"joined_at"`
	IsOwner   bool      `json:"is_owner"`
}

var inviteMessages = map[string]string{
	"email.required": "Please enter an email address.",
}

// AddMember creates a membership row for userID and increments the scope counter
func (s *MembershipService) AddMember(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (*MembershipResponse, error) {
	var resp *MembershipResponse
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.owner(ctx, scope, scopeID); err != nil {
			return err
		}

		member, err := s.isLedgered(ctx, scope, scopeID, userID)
		if err != nil {
			return err
		}
		if member {
			return alreadyMember(scope)
		}

		joinedAt, err := s.addRow(ctx, scope, scopeID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return alreadyMember(scope)
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to add %s member: %w", scope, err)
		}
		if err := s.adjust(ctx, scope, scopeID, 1); err != nil {
			return err
		}

		resp = &MembershipResponse{UserID: userID, ScopeID: scopeID, Scope: scope, JoinedAt: joinedAt}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"scope":    scope,
		"scope_id": scopeID,
		"member":   userID,
	}).Info("Member added")
	return resp, nil
}

// InviteByEmail resolves the email to a user and adds them to the scope
func (s *MembershipService) InviteByEmail(ctx context.Context, scope Scope, scopeID uuid.UUID, req *InviteRequest) (*MembershipResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := asError(validate(s.validator, req, inviteMessages)); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.AddMember(ctx, scope, scopeID, user.ID)
}

// Leave deletes the caller's own membership row and decrements the counter.
// The owner cannot leave.
func (s *MembershipService) Leave(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) error {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.removeMember(ctx, scope, scopeID, userID)
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"scope":    scope,
		"scope_id": scopeID,
	}).Info("Member left")
	return nil
}

// RemoveMember deletes targetID's membership row on behalf of the scope owner
func (s *MembershipService) RemoveMember(ctx context.Context, scope Scope, scopeID, targetID, callerID uuid.UUID) error {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		ownerID, err := s.owner(ctx, scope, scopeID)
		if err != nil {
			return err
		}
		if ownerID != callerID {
			return apperrors.ErrScopeNotFound
		}
		return s.removeMember(ctx, scope, scopeID, targetID)
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"scope":    scope,
		"scope_id": scopeID,
		"member":   targetID,
	}).Info("Member removed")
	return nil
}

// IsMember reports whether userID holds a membership row for the scope or owns it.
// A missing scope yields false.
func (s *MembershipService) IsMember(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (bool, error) {
	ownerID, err := s.owner(ctx, scope, scopeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if ownerID == userID {
		return true, nil
	}
	return s.isLedgered(ctx, scope, scopeID, userID)
}

// IsOwner reports whether userID owns the scope. A missing scope yields false.
func (s *MembershipService) IsOwner(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (bool, error) {
	ownerID, err := s.owner(ctx, scope, scopeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return ownerID == userID, nil
}

// ListMembers returns the members of a scope in join order
func (s *MembershipService) ListMembers(ctx context.Context, scope Scope, scopeID uuid.UUID) ([]MemberResponse, error) {
	ownerID, err := s.owner(ctx, scope, scopeID)
	if err != nil {
		return nil, err
	}

	var members []MemberResponse
	switch scope {
	case ScopeOrganization:
		rows, err := s.memberships.ListOrganizationMembers(ctx, scopeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list organization members: %w", err)
		}
		members = make([]MemberResponse, 0, len(rows))
		for _, row := range rows {
			members = append(members, toMemberResponse(row.UserID, row.User, row.CreatedAt, ownerID))
		}
	case ScopeTeam:
		rows, err := s.memberships.ListTeamMembers(ctx, scopeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list team members: %w", err)
		}
		members = make([]MemberResponse, 0, len(rows))
		for _, row := range rows {
			members = append(members, toMemberResponse(row.UserID, row.User, row.CreatedAt, ownerID))
		}
	default:
		return nil, unknownScope(scope)
	}
	return members, nil
}

func (s *MembershipService) removeMember(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) error {
	ownerID, err := s.owner(ctx, scope, scopeID)
	if err != nil {
		return err
	}
	if ownerID == userID {
		return apperrors.ErrOwnerMembership
	}

	if err := s.removeRow(ctx, scope, scopeID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to remove %s member: %w", scope, err)
	}
	return s.adjust(ctx, scope, scopeID, -1)
}

// owner returns the owner of the scope, or the scope's not-found error
func (s *MembershipService) owner(ctx context.Context, scope Scope, scopeID uuid.UUID) (uuid.UUID, error) {
	switch scope {
	case ScopeOrganization:
		org, err := s.orgs.GetByID(ctx, scopeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, apperrors.ErrOrganizationNotFound
			}
			return uuid.Nil, fmt.Errorf("failed to get organization: %w", err)
		}
		return org.OwnerID, nil
	case ScopeTeam:
		team, err := s.teams.GetByID(ctx, scopeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, apperrors.ErrTeamNotFound
			}
			return uuid.Nil, fmt.Errorf("failed to get team: %w", err)
		}
		return team.OwnerID, nil
	}
	return uuid.Nil, unknownScope(scope)
}

func (s *MembershipService) isLedgered(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (bool, error) {
	var (
		ok  bool
		err error
	)
	switch scope {
	case ScopeOrganization:
		ok, err = s.memberships.IsOrganizationMember(ctx, userID, scopeID)
	case ScopeTeam:
		ok, err = s.memberships.IsTeamMember(ctx, userID, scopeID)
	default:
		return false, unknownScope(scope)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s membership: %w", scope, err)
	}
	return ok, nil
}

func (s *MembershipService) addRow(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (time.Time, error) {
	switch scope {
	case ScopeOrganization:
		row, err := s.memberships.AddOrganizationMember(ctx, userID, scopeID)
		if err != nil {
			return time.Time{}, err
		}
		return row.CreatedAt, nil
	case ScopeTeam:
		row, err := s.memberships.AddTeamMember(ctx, userID, scopeID)
		if err != nil {
			return time.Time{}, err
		}
		return row.CreatedAt, nil
	}
	return time.Time{}, unknownScope(scope)
}

func (s *MembershipService) removeRow(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) error {
	switch scope {
	case ScopeOrganization:
		return s.memberships.RemoveOrganizationMember(ctx, userID, scopeID)
	case ScopeTeam:
		return s.memberships.RemoveTeamMember(ctx, userID, scopeID)
	}
	return unknownScope(scope)
}

func (s *MembershipService) adjust(ctx context.Context, scope Scope, scopeID uuid.UUID, delta int) error {
	var err error
	switch scope {
	case ScopeOrganization:
		err = s.orgs.AdjustMembers(ctx, scopeID, delta)
	case ScopeTeam:
		err = s.teams.AdjustMembers(ctx, scopeID, delta)
	default:
		return unknownScope(scope)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scopeNotFound(scope)
		}
		return fmt.Errorf("failed to adjust %s members: %w", scope, err)
	}
	return nil
}

func alreadyMember(scope Scope) error {
	if scope == ScopeTeam {
		return apperrors.ErrAlreadyTeamMember
	}
	return apperrors.ErrAlreadyOrganizationMember
}

func scopeNotFound(scope Scope) error {
	if scope == ScopeTeam {
		return apperrors.ErrTeamNotFound
	}
	return apperrors.ErrOrganizationNotFound
}

func unknownScope(scope Scope) error {
	return fmt.Errorf("unknown membership scope %q", scope)
}

func toMemberResponse(userID uuid.UUID, user *models.User, joinedAt time.Time, ownerID uuid.UUID) MemberResponse {
	resp := MemberResponse{
		UserID:   userID,
		JoinedAt: joinedAt,
		IsOwner:  userID == ownerID,
	}
	if user != nil {
		resp.FirstName = user.FirstName
		resp.LastName = user.LastName
		resp.Username = user.Username
	}
	return resp
}
