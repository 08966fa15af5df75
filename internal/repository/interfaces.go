package repository

import (
	"context"

	"teamspace-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetDisplayByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// OrganizationRepositoryInterface defines the interface for organization repository operations
type OrganizationRepositoryInterface interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetByName(ctx context.Context, name string) (*models.Organization, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustMembers(ctx context.Context, id uuid.UUID, delta int) error
}

// TeamRepositoryInterface defines the interface for team repository operations
type TeamRepositoryInterface interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetByName(ctx context.Context, parentID uuid.UUID, name string) (*models.Team, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Team, error)
	ListIDsByParent(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error)
	ListByParentsAndMember(ctx context.Context, parentIDs []uuid.UUID, userID uuid.UUID) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByParent(ctx context.Context, parentID uuid.UUID) error
	AdjustMembers(ctx context.Context, id uuid.UUID, delta int) error
}

// MembershipRepositoryInterface defines the membership ledger for both scopes
type MembershipRepositoryInterface interface {
	AddOrganizationMember(ctx context.Context, userID, orgID uuid.UUID) (*models.OrganizationMembership, error)
	RemoveOrganizationMember(ctx context.Context, userID, orgID uuid.UUID) error
	IsOrganizationMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
	ListOrganizationMembers(ctx context.Context, orgID uuid.UUID) ([]models.OrganizationMembership, error)
	CountOrganizationMembers(ctx context.Context, orgID uuid.UUID) (int64, error)
	DeleteOrganizationMemberships(ctx context.Context, orgID uuid.UUID) error

	AddTeamMember(ctx context.Context, userID, teamID uuid.UUID) (*models.TeamMembership, error)
	RemoveTeamMember(ctx context.Context, userID, teamID uuid.UUID) error
	IsTeamMember(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
	ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error)
	CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int64, error)
	DeleteTeamMemberships(ctx context.Context, teamIDs []uuid.UUID) error
}

// MessageRepositoryInterface defines the interface for team chat messages
type MessageRepositoryInterface interface {
	Create(ctx context.Context, message *models.Message) error
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Message, error)
	DeleteByTeams(ctx context.Context, teamIDs []uuid.UUID) error
}

// EventRepositoryInterface defines the interface for team events
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *models.Event) error
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Event, error)
	DeleteByTeams(ctx context.Context, teamIDs []uuid.UUID) error
}

// FileRepositoryInterface defines the interface for team files
type FileRepositoryInterface interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.File, error)
	DeleteByTeams(ctx context.Context, teamIDs []uuid.UUID) error
}
