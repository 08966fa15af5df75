package repository

import (
	"context"

	"teamspace-backend/internal/database"
	"teamspace-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository is the ledger of organization and team membership rows.
// It never touches the member counters; callers pair each write with AdjustMembers.
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func displayUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name", "username")
}

// AddOrganizationMember inserts a membership row; a duplicate yields gorm.ErrDuplicatedKey
func (r *MembershipRepository) AddOrganizationMember(ctx context.Context, userID, orgID uuid.UUID) (*models.OrganizationMembership, error) {
	membership := &models.OrganizationMembership{UserID: userID, OrganizationID: orgID}
	if err := database.Conn(ctx, r.db).Omit("User").Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// RemoveOrganizationMember deletes the membership row, returning gorm.ErrRecordNotFound if none existed
func (r *MembershipRepository) RemoveOrganizationMember(ctx context.Context, userID, orgID uuid.UUID) error {
	result := database.Conn(ctx, r.db).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		Delete(&models.OrganizationMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsOrganizationMember reports whether a membership row exists
func (r *MembershipRepository) IsOrganizationMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.OrganizationMembership{}).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		Count(&count).Error
	return count > 0, err
}

// ListOrganizationMembers returns membership rows with the member's display identity
func (r *MembershipRepository) ListOrganizationMembers(ctx context.Context, orgID uuid.UUID) ([]models.OrganizationMembership, error) {
	var memberships []models.OrganizationMembership
	err := database.Conn(ctx, r.db).
		Preload("User", displayUser).
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&memberships).Error
	return memberships, err
}

// CountOrganizationMembers counts membership rows for an organization
func (r *MembershipRepository) CountOrganizationMembers(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.OrganizationMembership{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error
	return count, err
}

// DeleteOrganizationMemberships removes every membership row of an organization
func (r *MembershipRepository) DeleteOrganizationMemberships(ctx context.Context, orgID uuid.UUID) error {
	return database.Conn(ctx, r.db).
		Where("organization_id = ?", orgID).
		Delete(&models.OrganizationMembership{}).Error
}

// AddTeamMember inserts a membership row; a duplicate yields gorm.ErrDuplicatedKey
func (r *MembershipRepository) AddTeamMember(ctx context.Context, userID, teamID uuid.UUID) (*models.TeamMembership, error) {
	membership := &models.TeamMembership{UserID: userID, TeamID: teamID}
	if err := database.Conn(ctx, r.db).Omit("User").Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// RemoveTeamMember deletes the membership row, returning gorm.ErrRecordNotFound if none existed
func (r *MembershipRepository) RemoveTeamMember(ctx context.Context, userID, teamID uuid.UUID) error {
	result := database.Conn(ctx, r.db).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Delete(&models.TeamMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsTeamMember reports whether a membership row exists
func (r *MembershipRepository) IsTeamMember(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.TeamMembership{}).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Count(&count).Error
	return count > 0, err
}

// ListTeamMembers returns membership rows with the member's display identity
func (r *MembershipRepository) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	err := database.Conn(ctx, r.db).
		Preload("User", displayUser).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&memberships).Error
	return memberships, err
}

// CountTeamMembers counts membership rows for a team
func (r *MembershipRepository) CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.TeamMembership{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	return count, err
}

// DeleteTeamMemberships removes every membership row of the given teams
func (r *MembershipRepository) DeleteTeamMemberships(ctx context.Context, teamIDs []uuid.UUID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).
		Where("team_id IN ?", teamIDs).
		Delete(&models.TeamMembership{}).Error
}
