package repository

import (
	"context"

	"teamspace-backend/internal/database"
	"teamspace-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrganizationRepository handles database operations for organizations
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create creates a new organization
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(org).Error
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := database.Conn(ctx, r.db).First(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByName retrieves an organization by name
func (r *OrganizationRepository) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	var org models.Organization
	err := database.Conn(ctx, r.db).First(&org, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// ListByMember returns organizations the user owns or holds a membership row in
func (r *OrganizationRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Organization, error) {
	db := database.Conn(ctx, r.db)
	memberOf := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.OrganizationMembership{}).
		Select("organization_id").
		Where("user_id = ?", userID)

	var orgs []models.Organization
	err := db.Where("id IN (?) OR owner_id = ?", memberOf, userID).
		Order("name ASC").
		Find(&orgs).Error
	return orgs, err
}

// Update saves editable fields; owner and member counter are left untouched
func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return database.Conn(ctx, r.db).
		Model(org).
		Select("name", "description", "address", "country", "state", "updated_at").
		Updates(org).Error
}

// Delete removes an organization row, returning gorm.ErrRecordNotFound if none was removed
func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := database.Conn(ctx, r.db).Delete(&models.Organization{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustMembers shifts the member counter by delta without letting it drop below one
func (r *OrganizationRepository) AdjustMembers(ctx context.Context, id uuid.UUID, delta int) error {
	result := database.Conn(ctx, r.db).
		Model(&models.Organization{}).
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

// clampedMembers builds members+delta floored at the owner
func clampedMembers(delta int) clause.Expr {
	return gorm.Expr("CASE WHEN members + ? < 1 THEN 1 ELSE members + ? END", delta, delta)
}
