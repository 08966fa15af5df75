package models

import (
	"github.com/google/uuid"
)

// Organization is the top-level membership scope
type Organization struct {
	BaseModel
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Address     string    `json:"address" gorm:"size:255"`
	Country     string    `json:"country" gorm:"size:2"`
	State       string    `json:"state" gorm:"size:2"`
	Members     int       `json:"members" gorm:"not null;default:1"`

	// Relationships
	Teams       []Team                   `json:"teams,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Memberships []OrganizationMembership `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMembership is a ledger row placing a user in an organization
type OrganizationMembership struct {
	BaseModel
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_org_membership_user_org"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;uniqueIndex:idx_org_membership_user_org;index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for OrganizationMembership
func (OrganizationMembership) TableName() string {
	return "organization_memberships"
}
