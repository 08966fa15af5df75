package service

import (
	"context"
	"io"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// UserServiceInterface defines the interface for the identity store
type UserServiceInterface interface {
	Signup(ctx context.Context, req *SignupRequest) (*UserResponse, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*UserResponse, error)
	FindByEmail(ctx context.Context, email string) (*UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *ChangePasswordRequest) error
}

// OrganizationServiceInterface defines the interface for organization service
type OrganizationServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *OrganizationRequest) (*OrganizationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error)
	Update(ctx context.Context, id, callerID uuid.UUID, req *OrganizationRequest) (*OrganizationResponse, error)
	Delete(ctx context.Context, id, callerID uuid.UUID) error
	ListForMember(ctx context.Context, userID uuid.UUID) ([]MemberOrganizationResponse, error)
	ListTeams(ctx context.Context, id uuid.UUID) ([]TeamResponse, error)
	IncrementMembers(ctx context.Context, id uuid.UUID, delta int) error
}

// TeamServiceInterface defines the interface for team service
type TeamServiceInterface interface {
	Create(ctx context.Context, ownerID, orgID uuid.UUID, req *TeamRequest) (*TeamResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TeamResponse, error)
	Update(ctx context.Context, id, callerID uuid.UUID, req *TeamRequest) (*TeamResponse, error)
	Delete(ctx context.Context, id, callerID uuid.UUID) error
	IncrementMembers(ctx context.Context, id uuid.UUID, delta int) error
}

// MembershipServiceInterface defines the interface for the membership lifecycle
type MembershipServiceInterface interface {
	AddMember(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (*MembershipResponse, error)
	InviteByEmail(ctx context.Context, scope Scope, scopeID uuid.UUID, req *InviteRequest) (*MembershipResponse, error)
	Leave(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, scope Scope, scopeID, targetID, callerID uuid.UUID) error
	IsMember(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, scope Scope, scopeID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, scope Scope, scopeID uuid.UUID) ([]MemberResponse, error)
}

// AccessServiceInterface defines the interface for guard chain evaluation
type AccessServiceInterface interface {
	Check(ctx context.Context, principal *Principal, scopeID uuid.UUID, caps ...Capability) error
}

// ContentServiceInterface defines the interface for team content
type ContentServiceInterface interface {
	CreateMessage(ctx context.Context, ownerID, teamID uuid.UUID, req *MessageRequest) (*MessageResponse, error)
	ListMessages(ctx context.Context, teamID uuid.UUID) ([]MessageResponse, error)
	CreateEvent(ctx context.Context, ownerID, teamID uuid.UUID, req *EventRequest) (*EventResponse, error)
	ListEvents(ctx context.Context, teamID uuid.UUID) ([]EventResponse, error)
	CreateFile(ctx context.Context, ownerID, teamID uuid.UUID, name, location string) (*FileResponse, error)
	UploadFile(ctx context.Context, ownerID, teamID uuid.UUID, name string, r io.Reader) (*FileResponse, error)
	ListFiles(ctx context.Context, teamID uuid.UUID) ([]FileResponse, error)
	OpenFile(ctx context.Context, teamID, fileID uuid.UUID) (*FileResponse, io.ReadCloser, error)
}

// DriveServiceInterface defines the interface for Google Drive imports
type DriveServiceInterface interface {
	AuthorizeURL(ctx context.Context, userID, teamID uuid.UUID, req *DriveImportRequest) (string, error)
	Import(ctx context.Context, userID uuid.UUID, code, state string) (*FileResponse, error)
}
