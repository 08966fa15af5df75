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

// TeamService handles business logic for teams
type TeamService struct {
	orgs        repository.OrganizationRepositoryInterface
	teams       repository.TeamRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	content     ContentRepositories
	txManager   database.TransactionManagerInterface
	store       FileStore
	renderer    DescriptionRenderer
	validator   *validator.Validate
}

// NewTeamService creates a new team service
func NewTeamService(
	orgs repository.OrganizationRepositoryInterface,
	teams repository.TeamRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
	content ContentRepositories,
	txManager database.TransactionManagerInterface,
	store FileStore,
	renderer DescriptionRenderer,
	validator *validator.Validate,
) *TeamService {
	return &TeamService{
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

// TeamRequest represents the create and edit form of a team
type TeamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
}

// TeamResponse represents the response for team operations
type TeamResponse struct {
	ID              uuid.UUID            `json:"id"`
	OwnerID         uuid.UUID            `json:"owner_id"`
	ParentID        uuid.UUID            `json:"parent_id"`
	Parent          *OrganizationSummary `json:"parent,omitempty"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	DescriptionHTML string               `json:"description_html,omitempty"`
	Members         int                  `json:"members"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

var teamMessages = map[string]string{
	"name.required":        "Please enter a name for the team.",
	"description.required": "Please enter a description.",
}

// Create creates a team in organization orgID owned by ownerID, with the owner's membership row
func (s *TeamService) Create(ctx context.Context, ownerID, orgID uuid.UUID, req *TeamRequest) (*TeamResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := asError(validate(s.validator, req, teamMessages)); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	existing, err := s.teams.GetByName(ctx, org.ID, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing team by name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrTeamExists
	}

	team := &models.Team{
		OwnerID:     ownerID,
		ParentID:    org.ID,
		Name:        req.Name,
		Description: req.Description,
		Members:     1,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.teams.Create(ctx, team); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrTeamExists
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrOrganizationNotFound
			}
			return fmt.Errorf("failed to create team: %w", err)
		}
		if _, err := s.memberships.AddTeamMember(ctx, ownerID, team.ID); err != nil {
			return fmt.Errorf("failed to add owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id":         team.ID,
		"organization_id": org.ID,
		"name":            team.Name,
	}).Info("Team created")

	resp := toTeamResponse(team)
	resp.Parent = &OrganizationSummary{ID: org.ID, Name: org.Name}
	return resp, nil
}

// GetByID retrieves a team with its parent summary and rendered description
func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	resp := toTeamResponse(team)
	resp.DescriptionHTML = renderDescription(ctx, s.renderer, team.Description)
	return resp, nil
}

// Update edits a team. Only the owner may edit.
func (s *TeamService) Update(ctx context.Context, id, callerID uuid.UUID, req *TeamRequest) (*TeamResponse, error) {
	team, err := s.ownedTeam(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := asError(validate(s.validator, req, teamMessages)); err != nil {
		return nil, err
	}

	if req.Name != team.Name {
		existing, err := s.teams.GetByName(ctx, team.ParentID, req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing team by name: %w", err)
		}
		if existing != nil && existing.ID != team.ID {
			return nil, apperrors.ErrTeamExists
		}
	}

	team.Name = req.Name
	team.Description = req.Description
	if err := s.teams.Update(ctx, team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrTeamExists
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return toTeamResponse(team), nil
}

// Delete removes a team with its messages, events, files and memberships
func (s *TeamService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	team, err := s.ownedTeam(ctx, id, callerID)
	if err != nil {
		return err
	}

	teamIDs := []uuid.UUID{team.ID}
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := purgeTeamContent(ctx, s.content, s.memberships, teamIDs); err != nil {
			return err
		}
		if err := s.teams.Delete(ctx, team.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTeamNotFound
			}
			return fmt.Errorf("failed to delete team: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removeTeamFiles(ctx, s.store, teamIDs)

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id":         team.ID,
		"organization_id": team.ParentID,
	}).Info("Team deleted")
	return nil
}

// IncrementMembers adjusts the member counter. The counter never drops below 1.
func (s *TeamService) IncrementMembers(ctx context.Context, id uuid.UUID, delta int) error {
	if err := s.teams.AdjustMembers(ctx, id, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTeamNotFound
		}
		return fmt.Errorf("failed to adjust team members: %w", err)
	}
	return nil
}

func (s *TeamService) ownedTeam(ctx context.Context, id, callerID uuid.UUID) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team.OwnerID != callerID {
		return nil, apperrors.ErrScopeNotFound
	}
	return team, nil
}

func toTeamResponse(team *models.Team) *TeamResponse {
	resp := &TeamResponse{
		ID:          team.ID,
		OwnerID:     team.OwnerID,
		ParentID:    team.ParentID,
		Name:        team.Name,
		Description: team.Description,
		Members:     team.Members,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
	if team.Parent != nil {
		resp.Parent = &OrganizationSummary{ID: team.Parent.ID, Name: team.Parent.Name}
	}
	return resp
}
