package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat line posted to a team
type Message struct {
	BaseModel
	OwnerID  uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	ParentID uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;index"`
	Content  string    `json:"message" gorm:"column:content;size:255;not null"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// Event is a dated entry on a team calendar
type Event struct {
	BaseModel
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	ParentID    uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Start       time.Time `json:"start" gorm:"type:date;not null"`
	End         time.Time `json:"end" gorm:"type:date;not null"`
}

// TableName returns the table name for Event
func (Event) TableName() string {
	return "events"
}

// File is an upload stored for a team
type File struct {
	BaseModel
	OwnerID  uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	ParentID uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"size:255;not null"`
	Location string    `json:"-" gorm:"size:1024;not null"`
}

// TableName returns the table name for File
func (File) TableName() string {
	return "files"
}
