package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultDriveAPIBaseURL is the Google Drive v3 REST root
const DefaultDriveAPIBaseURL = "https://www.googleapis.com/drive/v3"

// DriveState travels through the OAuth round trip as the signed state parameter
type DriveState struct {
	UserID uuid.UUID `json:"uid"`
	TeamID uuid.UUID `json:"tid"`
	FileID string    `json:"fid"`
}

// StateSigner signs and verifies OAuth state values
type StateSigner interface {
	SignState(state DriveState) (string, error)
	ParseState(token string) (*DriveState, error)
}

// DriveImportRequest selects a Drive file to copy into a team
type DriveImportRequest struct {
	FileID string `json:"file_id" validate:"required,max=200"`
}

// DriveService imports Google Drive files into team storage
type DriveService struct {
	oauth       *oauth2.Config
	apiBaseURL  string
	signer      StateSigner
	memberships MembershipServiceInterface
	content     ContentServiceInterface
	validator   *validator.Validate
}

// NewDriveService creates a new Drive import service. A nil oauth config disables imports.
func NewDriveService(oauth *oauth2.Config, signer StateSigner, memberships MembershipServiceInterface, content ContentServiceInterface, validator *validator.Validate) *DriveService {
	return &DriveService{
		oauth:       oauth,
		apiBaseURL:  DefaultDriveAPIBaseURL,
		signer:      signer,
		memberships: memberships,
		content:     content,
		validator:   validator,
	}
}

// WithAPIBaseURL points the service at another Drive API root
func (s *DriveService) WithAPIBaseURL(base string) *DriveService {
	s.apiBaseURL = strings.TrimRight(base, "/")
	return s
}

// AuthorizeURL returns the consent page URL for importing req.FileID into teamID
func (s *DriveService) AuthorizeURL(ctx context.Context, userID, teamID uuid.UUID, req *DriveImportRequest) (string, error) {
	if s.oauth == nil {
		return "", apperrors.ErrProviderNotConfigured
	}
	req.FileID = strings.TrimSpace(req.FileID)
	if err := asError(validate(s.validator, req, nil)); err != nil {
		return "", err
	}

	state, err := s.signer.SignState(DriveState{UserID: userID, TeamID: teamID, FileID: req.FileID})
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Import completes the OAuth round trip and copies the Drive file into the team named by state
func (s *DriveService) Import(ctx context.Context, userID uuid.UUID, code, state string) (*FileResponse, error) {
	if s.oauth == nil {
		return nil, apperrors.ErrProviderNotConfigured
	}

	st, err := s.signer.ParseState(state)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if st.UserID != userID {
		return nil, apperrors.ErrInvalidToken
	}

	member, err := s.memberships.IsMember(ctx, ScopeTeam, st.TeamID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.ErrScopeNotFound
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", apperrors.ErrProviderRequestFailed, err)
	}
	client := s.oauth.Client(ctx, token)

	name, err := s.fileName(ctx, client, st.FileID)
	if err != nil {
		return nil, err
	}

	resp, err := s.get(ctx, client, st.FileID, url.Values{"alt": {"media"}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	file, err := s.content.UploadFile(ctx, userID, st.TeamID, name, resp.Body)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id":  st.TeamID,
		"drive_id": st.FileID,
	}).Info("Drive file imported")
	return file, nil
}

func (s *DriveService) fileName(ctx context.Context, client *http.Client, fileID string) (string, error) {
	resp, err := s.get(ctx, client, fileID, url.Values{"fields": {"name"}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var meta struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("%w: decode metadata: %v", apperrors.ErrProviderRequestFailed, err)
	}
	if meta.Name == "" {
		return "", fmt.Errorf("%w: file has no name", apperrors.ErrProviderRequestFailed)
	}
	return meta.Name, nil
}

// get requests a Drive file resource. The caller closes the body.
func (s *DriveService) get(ctx context.Context, client *http.Client, fileID string, query url.Values) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/files/%s?%s", s.apiBaseURL, url.PathEscape(fileID), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build drive request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: drive returned status %d", apperrors.ErrProviderRequestFailed, resp.StatusCode)
	}
	return resp, nil
}
