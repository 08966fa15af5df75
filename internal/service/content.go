package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"teamspace-backend/internal/database/models"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/repository"
	"teamspace-backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ContentService handles team messages, events and files
type ContentService struct {
	users     repository.UserRepositoryInterface
	content   ContentRepositories
	store     FileStore
	validator *validator.Validate
}

// NewContentService creates a new content service
func NewContentService(users repository.UserRepositoryInterface, content ContentRepositories, store FileStore, validator *validator.Validate) *ContentService {
	return &ContentService{
		users:     users,
		content:   content,
		store:     store,
		validator: validator,
	}
}

// MessageRequest represents a chat post
type MessageRequest struct {
	Message string `json:"message" validate:"required,max=255"`
}

// EventRequest represents a new event. Dates use YYYY-MM-DD.
type EventRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description"`
	Start       string `json:"start" validate:"required,datetime=2006-01-02"`
	End         string `json:"end" validate:"required,datetime=2006-01-02"`
}

// AuthorResponse is the display identity attached to content
type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
}

// MessageResponse represents a chat message
type MessageResponse struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	Message   string          `json:"message"`
	User      *AuthorResponse `json:"user"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventResponse represents a team event
type EventResponse struct {
	ID          uuid.UUID       `json:"id"`
	TeamID      uuid.UUID       `json:"team_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	User        *AuthorResponse `json:"user"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FileResponse represents a stored team file
type FileResponse struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	Name      string          `json:"name"`
	User      *AuthorResponse `json:"user"`
	CreatedAt time.Time       `json:"created_at"`
}

var (
	messageMessages = map[string]string{
		"message.required": "Please enter a message.",
	}
	eventMessages = map[string]string{
		"title.required": "Please enter a title.",
		"start.required": "Please enter a start date.",
		"end.required":   "Please enter an end date.",
	}
)

// CreateMessage posts a chat message to a team
func (s *ContentService) CreateMessage(ctx context.Context, ownerID, teamID uuid.UUID, req *MessageRequest) (*MessageResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := asError(validate(s.validator, req, messageMessages)); err != nil {
		return nil, err
	}

	message := &models.Message{OwnerID: ownerID, ParentID: teamID, Content: req.Message}
	if err := s.content.Messages.Create(ctx, message); err != nil {
		return nil, createContentError("message", err)
	}

	authors, err := s.authors(ctx, []uuid.UUID{ownerID})
	if err != nil {
		return nil, err
	}
	return toMessageResponse(message, authors), nil
}

// ListMessages lists a team's messages newest first
func (s *ContentService) ListMessages(ctx context.Context, teamID uuid.UUID) ([]MessageResponse, error) {
	messages, err := s.content.Messages.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.OwnerID)
	}
	authors, err := s.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, *toMessageResponse(&messages[i], authors))
	}
	return responses, nil
}

// CreateEvent adds an event to a team. The end date may not precede the start date.
func (s *ContentService) CreateEvent(ctx context.Context, ownerID, teamID uuid.UUID, req *EventRequest) (*EventResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Start = strings.TrimSpace(req.Start)
	req.End = strings.TrimSpace(req.End)
	if err := asError(validate(s.validator, req, eventMessages)); err != nil {
		return nil, err
	}

	start, err := time.Parse(dateLayout, req.Start)
	if err != nil {
		return nil, apperrors.NewValidationError("start", "Enter a valid date (YYYY-MM-DD).")
	}
	end, err := time.Parse(dateLayout, req.End)
	if err != nil {
		return nil, apperrors.NewValidationError("end", "Enter a valid date (YYYY-MM-DD).")
	}
	if end.Before(start) {
		return nil, apperrors.ErrInvalidTimeRange
	}

	event := &models.Event{
		OwnerID:     ownerID,
		ParentID:    teamID,
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
	}
	if err := s.content.Events.Create(ctx, event); err != nil {
		return nil, createContentError("event", err)
	}

	authors, err := s.authors(ctx, []uuid.UUID{ownerID})
	if err != nil {
		return nil, err
	}
	return toEventResponse(event, authors), nil
}

// ListEvents lists a team's events, latest start date first
func (s *ContentService) ListEvents(ctx context.Context, teamID uuid.UUID) ([]EventResponse, error) {
	events, err := s.content.Events.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.OwnerID)
	}
	authors, err := s.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, *toEventResponse(&events[i], authors))
	}
	return responses, nil
}

// CreateFile records a file already written to storage at location
func (s *ContentService) CreateFile(ctx context.Context, ownerID, teamID uuid.UUID, name, location string) (*FileResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ValidationErrors{}.Add("name", apperrors.CodeRequired, "This field is required.")
	}

	file := &models.File{OwnerID: ownerID, ParentID: teamID, Name: name, Location: location}
	if err := s.content.Files.Create(ctx, file); err != nil {
		return nil, createContentError("file", err)
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id": teamID,
		"file_id": file.ID,
		"name":    name,
	}).Info("File stored")

	authors, err := s.authors(ctx, []uuid.UUID{ownerID})
	if err != nil {
		return nil, err
	}
	return toFileResponse(file, authors), nil
}

// UploadFile writes r to the team's storage and records it
func (s *ContentService) UploadFile(ctx context.Context, ownerID, teamID uuid.UUID, name string, r io.Reader) (*FileResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ValidationErrors{}.Add("name", apperrors.CodeRequired, "This field is required.")
	}

	clean, err := storage.CleanName(name)
	if err != nil {
		return nil, apperrors.ValidationErrors{}.Add("name", apperrors.CodeInvalid, "This file name is not allowed.")
	}

	location, err := s.store.Save(teamID, clean, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	return s.CreateFile(ctx, ownerID, teamID, clean, location)
}

// ListFiles lists a team's files newest first
func (s *ContentService) ListFiles(ctx context.Context, teamID uuid.UUID) ([]FileResponse, error) {
	files, err := s.content.Files.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.OwnerID)
	}
	authors, err := s.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]FileResponse, 0, len(files))
	for i := range files {
		responses = append(responses, *toFileResponse(&files[i], authors))
	}
	return responses, nil
}

// OpenFile opens a stored file for download. A file of another team is reported as not found.
func (s *ContentService) OpenFile(ctx context.Context, teamID, fileID uuid.UUID) (*FileResponse, io.ReadCloser, error) {
	file, err := s.content.Files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file.ParentID != teamID {
		return nil, nil, apperrors.ErrFileNotFound
	}

	f, err := s.store.Open(file.Location)
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("file_id", file.ID).Warn("Stored file is missing")
		return nil, nil, apperrors.ErrFileNotFound
	}
	return toFileResponse(file, nil), f, nil
}

// authors resolves display identities; users that no longer exist are simply absent
func (s *ContentService) authors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*AuthorResponse, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.users.GetDisplayByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}

	authors := make(map[uuid.UUID]*AuthorResponse, len(users))
	for _, u := range users {
		authors[u.ID] = &AuthorResponse{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Username:  u.Username,
		}
	}
	return authors, nil
}

func createContentError(entity string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperrors.ErrTeamNotFound
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}

func toMessageResponse(m *models.Message, authors map[uuid.UUID]*AuthorResponse) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		TeamID:    m.ParentID,
		Message:   m.Content,
		User:      authors[m.OwnerID],
		CreatedAt: m.CreatedAt,
	}
}

func toEventResponse(e *models.Event, authors map[uuid.UUID]*AuthorResponse) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		TeamID:      e.ParentID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.Start.Format(dateLayout),
		End:         e.End.Format(dateLayout),
		User:        authors[e.OwnerID],
		CreatedAt:   e.CreatedAt,
	}
}

func toFileResponse(f *models.File, authors map[uuid.UUID]*AuthorResponse) *FileResponse {
	return &FileResponse{
		ID:        f.ID,
		TeamID:    f.ParentID,
		Name:      f.Name,
		User:      authors[f.OwnerID],
		CreatedAt: f.CreatedAt,
	}
}
