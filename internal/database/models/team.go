package models

import (
	"github.com/google/uuid"
)

// Team is a membership scope nested in an organization
type Team struct {
	BaseModel
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	ParentID    uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_parent_name"`
	Name        string    `json:"name" gorm:"not null;size:100;uniqueIndex:idx_team_parent_name"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Members     int       `json:"members" gorm:"not null;default:1"`

	// Relationships
	Parent      *Organization    `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Memberships []TeamMembership `json:"-" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Messages    []Message        `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Events      []Event          `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Files       []File           `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}

// TeamMembership is a ledger row placing a user in a team
type TeamMembership struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_membership_user_team"`
	TeamID uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_membership_user_team;index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for TeamMembership
func (TeamMembership) TableName() string {
	return "team_memberships"
}
