package repository

import (
	"context"

	"teamspace-backend/internal/database"
	"teamspace-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(team).Error
}

// GetByID retrieves a team by ID together with its parent organization
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := database.Conn(ctx, r.db).Preload("Parent").First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByName retrieves a team by name within an organization
func (r *TeamRepository) GetByName(ctx context.Context, parentID uuid.UUID, name string) (*models.Team, error) {
	var team models.Team
	err := database.Conn(ctx, r.db).First(&team, "parent_id = ? AND name = ?", parentID, name).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListByParent retrieves all teams of an organization
func (r *TeamRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	err := database.Conn(ctx, r.db).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

// ListIDsByParent returns the ids of an organization's teams
func (r *TeamRepository) ListIDsByParent(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := database.Conn(ctx, r.db).
		Model(&models.Team{}).
		Where("parent_id = ?", parentID).
		Pluck("id", &ids).Error
	return ids, err
}

// ListByParentsAndMember returns the teams under parentIDs that the user holds a membership row in
func (r *TeamRepository) ListByParentsAndMember(ctx context.Context, parentIDs []uuid.UUID, userID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	if len(parentIDs) == 0 {
		return teams, nil
	}
	err := database.Conn(ctx, r.db).
		Joins("JOIN team_memberships ON team_memberships.team_id = teams.id").
		Where("teams.parent_id IN ? AND team_memberships.user_id = ?", parentIDs, userID).
		Order("teams.name ASC").
		Find(&teams).Error
	return teams, err
}

// Update saves editable fields; owner, parent and member counter are left untouched
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	return database.Conn(ctx, r.db).
		Model(team).
		Select("name", "description", "updated_at").
		Omit(clause.Associations).
		Updates(team).Error
}

// Delete removes a team row, returning gorm.ErrRecordNotFound if none was removed
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := database.Conn(ctx, r.db).Delete(&models.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByParent removes every team of an organization
func (r *TeamRepository) DeleteByParent(ctx context.Context, parentID uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&models.Team{}, "parent_id = ?", parentID).Error
}

// AdjustMembers shifts the member counter by delta without letting it drop below one
func (r *TeamRepository) AdjustMembers(ctx context.Context, id uuid.UUID, delta int) error {
	result := database.Conn(ctx, r.db).
		Model(&models.Team{}).
		Where("id = ?", id).
		UpdateColumn("members", clampedMembers(delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
