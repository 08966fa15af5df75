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

// OrganizationService handles business logic for organizations
type OrganizationService struct {
	orgs        repository.OrganizationRepositoryInterface
	teams       repository.TeamRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	content     ContentRepositories
	txManager   database.TransactionManagerInterface
	store       FileStore
	renderer    DescriptionRenderer
	validator   *validator.Validate
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	orgs repository.OrganizationRepositoryInterface,
	teams repository.TeamRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
	content ContentRepositories,
	txManager database.TransactionManagerInterface,
	store FileStore,
	renderer DescriptionRenderer,
	validator *validator.Validate,
) *OrganizationService {
	return &OrganizationService{
		orgs:        orgs,
		teams:       teams,
		memberships: memberships,
		content:     content,
		txManager:   txManager,
		store:       store,
		renderer:    renderer,
		validator:   validator,
	}
}

// OrganizationRequest represents the create and edit form of an organization
type OrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Address     string `json:"address" validate:"max=255"`
	Country     string `json:"country" validate:"omitempty,len=2,alpha"`
	State       string `json:"state" validate:"omitempty,len=2,alpha"`
}

// OrganizationResponse represents the response for organization operations
type OrganizationResponse struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	Address         string    `json:"address"`
	Country         string    `json:"country"`
	State           string    `json:"state"`
	Members         int       `json:"members"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OrganizationSummary is the parent reference embedded in team responses
type OrganizationSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// MemberOrganizationResponse is a dashboard entry: an organization and the caller's teams in it
type MemberOrganizationResponse struct {
	OrganizationResponse
	ActiveTeams []TeamResponse `json:"active_teams"`
}

var organizationMessages = map[string]string{
	"name.required":        "Please enter a name for the organization.",
	"description.required": "Please enter a description.",
}

// Create creates an organization owned by ownerID together with the owner's membership row
func (s *OrganizationService) Create(ctx context.Context, ownerID uuid.UUID, req *OrganizationRequest) (*OrganizationResponse, error) {
	normalizeOrganizationRequest(req)
	if err := asError(validate(s.validator, req, organizationMessages)); err != nil {
		return nil, err
	}

	existing, err := s.orgs.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing organization by name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrOrganizationExists
	}

	org := &models.Organization{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Country:     req.Country,
		State:       req.State,
		Members:     1,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.orgs.Create(ctx, org); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrOrganizationExists
			}
			return fmt.Errorf("failed to create organization: %w", err)
		}
		if _, err := s.memberships.AddOrganizationMember(ctx, ownerID, org.ID); err != nil {
			return fmt.Errorf("failed to add owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"organization_id": org.ID,
		"name":            org.Name,
	}).Info("Organization created")

	return toOrganizationResponse(org), nil
}

// GetByID retrieves an organization with its rendered description
func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	resp := toOrganizationResponse(org)
	resp.DescriptionHTML = renderDescription(ctx, s.renderer, org.Description)
	return resp, nil
}

// Update edits an organization. Only the owner may edit; owner and counter never change here.
func (s *OrganizationService) Update(ctx context.Context, id, callerID uuid.UUID, req *OrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.ownedOrganization(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	normalizeOrganizationRequest(req)
	if err := asError(validate(s.validator, req, organizationMessages)); err != nil {
		return nil, err
	}

	if req.Name != org.Name {
		existing, err := s.orgs.GetByName(ctx, req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing organization by name: %w", err)
		}
		if existing != nil && existing.ID != org.ID {
			return nil, apperrors.ErrOrganizationExists
		}
	}

	org.Name = req.Name
	org.Description = req.Description
	org.Address = req.Address
	org.Country = req.Country
	org.State = req.State
	if err := s.orgs.Update(ctx, org); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrOrganizationExists
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return toOrganizationResponse(org), nil
}

// Delete removes an organization, its teams, their content and every membership row.
// Stored team files are removed after the transaction commits.
func (s *OrganizationService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	org, err := s.ownedOrganization(ctx, id, callerID)
	if err != nil {
		return err
	}

	var teamIDs []uuid.UUID
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		teamIDs, err = s.teams.ListIDsByParent(ctx, org.ID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		if err := purgeTeamContent(ctx, s.content, s.memberships, teamIDs); err != nil {
			return err
		}
		if err := s.teams.DeleteByParent(ctx, org.ID); err != nil {
			return fmt.Errorf("failed to delete teams: %w", err)
		}
		if err := s.memberships.DeleteOrganizationMemberships(ctx, org.ID); err != nil {
			return fmt.Errorf("failed to delete organization memberships: %w", err)
		}
		if err := s.orgs.Delete(ctx, org.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrOrganizationNotFound
			}
			return fmt.Errorf("failed to delete organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removeTeamFiles(ctx, s.store, teamIDs)

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"organization_id": org.ID,
		"teams":           len(teamIDs),
	}).Info("Organization deleted")
	return nil
}

// ListForMember returns the organizations userID belongs to, each with the teams userID belongs to
func (s *OrganizationService) ListForMember(ctx context.Context, userID uuid.UUID) ([]MemberOrganizationResponse, error) {
	orgs, err := s.orgs.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	orgIDs := make([]uuid.UUID, 0, len(orgs))
	for _, org := range orgs {
		orgIDs = append(orgIDs, org.ID)
	}
	teams, err := s.teams.ListByParentsAndMember(ctx, orgIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active teams: %w", err)
	}

	byParent := make(map[uuid.UUID][]TeamResponse)
	for i := range teams {
		byParent[teams[i].ParentID] = append(byParent[teams[i].ParentID], *toTeamResponse(&teams[i]))
	}

	responses := make([]MemberOrganizationResponse, 0, len(orgs))
	for i := range orgs {
		active := byParent[orgs[i].ID]
		if active == nil {
			active = []TeamResponse{}
		}
		responses = append(responses, MemberOrganizationResponse{
			OrganizationResponse: *toOrganizationResponse(&orgs[i]),
			ActiveTeams:          active,
		})
	}
	return responses, nil
}

// ListTeams lists every team of an organization
func (s *OrganizationService) ListTeams(ctx context.Context, id uuid.UUID) ([]TeamResponse, error) {
	teams, err := s.teams.ListByParent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	responses := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		responses = append(responses, *toTeamResponse(&teams[i]))
	}
	return responses, nil
}

// IncrementMembers adjusts the member counter. The counter never drops below 1.
func (s *OrganizationService) IncrementMembers(ctx context.Context, id uuid.UUID, delta int) error {
	if err := s.orgs.AdjustMembers(ctx, id, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to adjust organization members: %w", err)
	}
	return nil
}

// ownedOrganization loads an organization and hides it from anyone but its owner
func (s *OrganizationService) ownedOrganization(ctx context.Context, id, callerID uuid.UUID) (*models.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org.OwnerID != callerID {
		return nil, apperrors.ErrScopeNotFound
	}
	return org, nil
}

func normalizeOrganizationRequest(req *OrganizationRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Address = strings.TrimSpace(req.Address)
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	req.State = strings.ToUpper(strings.TrimSpace(req.State))
}

func toOrganizationResponse(org *models.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:          org.ID,
		OwnerID:     org.OwnerID,
		Name:        org.Name,
		Description: org.Description,
		Address:     org.Address,
		Country:     org.Country,
		State:       org.State,
		Members:     org.Members,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
}
