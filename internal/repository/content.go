package repository

import (
	"context"

	"teamspace-backend/internal/database"
	"teamspace-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository handles database operations for team messages
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	return database.Conn(ctx, r.db).Create(message).Error
}

// ListByTeam returns a team's messages, newest first
func (r *MessageRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := database.Conn(ctx, r.db).
		Where("parent_id = ?", teamID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// DeleteByTeams removes every message of the given teams
func (r *MessageRepository) DeleteByTeams(ctx context.Context, teamIDs []uuid.UUID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Where("parent_id IN ?", teamIDs).Delete(&models.Message{}).Error
}

// EventRepository handles database operations for team events
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return database.Conn(ctx, r.db).Create(event).Error
}

// ListByTeam returns a team's events, latest start date first
func (r *EventRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := database.Conn(ctx, r.db).
		Where("parent_id = ?", teamID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "start"}, Desc: true}).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// DeleteByTeams removes every event of the given teams
func (r *EventRepository) DeleteByTeams(ctx context.Context, teamIDs []uuid.UUID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Where("parent_id IN ?", teamIDs).Delete(&models.Event{}).Error
}

// FileRepository handles database operations for team files
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create creates a new file record
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return database.Conn(ctx, r.db).Create(file).Error
}

// GetByID retrieves a file record by ID
func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := database.Conn(ctx, r.db).First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByTeam returns a team's files, newest first
func (r *FileRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := database.Conn(ctx, r.db).
		Where("parent_id = ?", teamID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// DeleteByTeams removes every file record of the given teams
func (r *FileRepository) DeleteByTeams(ctx context.Context, teamIDs []uuid.UUID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Where("parent_id IN ?", teamIDs).Delete(&models.File{}).Error
}
