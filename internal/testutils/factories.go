package testutils

import (
	"fmt"
	"time"

	"teamspace-backend/internal/database/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every factory-built user's hash
const TestPassword = "correct-horse-battery"

var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func shortID() string {
	return uuid.NewString()[:8]
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with unique username and email
func (f *UserFactory) Create() *models.User {
	suffix := shortID()
	return &models.User{
		BaseModel: models.BaseModel{
			ID: uuid.New(),
		},
		FirstName:    "Test",
		LastName:     "User",
		Username:     "user_" + suffix,
		Email:        fmt.Sprintf("user_%s@example.com", suffix),
		PasswordHash: testPasswordHash,
		IsActive:     true,
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// WithName sets custom first and last names
func (f *UserFactory) WithName(first, last string) *models.User {
	user := f.Create()
	user.FirstName = first
	user.LastName = last
	return user
}

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization owned by ownerID
func (f *OrganizationFactory) Create(ownerID uuid.UUID) *models.Organization {
	return &models.Organization{
		BaseModel: models.BaseModel{
			ID: uuid.New(),
		},
		OwnerID:     ownerID,
		Name:        "Test Organization " + shortID(),
		Description: "A test organization for testing purposes",
		Address:     "1 Main St",
		Country:     "US",
		State:       "CA",
		Members:     1,
	}
}

// WithName sets a custom name for the organization
func (f *OrganizationFactory) WithName(ownerID uuid.UUID, name string) *models.Organization {
	org := f.Create(ownerID)
	org.Name = name
	return org
}

// TeamFactory provides methods to create test Team data
type TeamFactory struct{}

// NewTeamFactory creates a new TeamFactory
func NewTeamFactory() *TeamFactory {
	return &TeamFactory{}
}

// Create creates a test Team in parentID owned by ownerID
func (f *TeamFactory) Create(ownerID, parentID uuid.UUID) *models.Team {
	return &models.Team{
		BaseModel: models.BaseModel{
			ID: uuid.New(),
		},
		OwnerID:     ownerID,
		ParentID:    parentID,
		Name:        "Test Team " + shortID(),
		Description: "A test team for testing purposes",
		Members:     1,
	}
}

// WithName sets a custom name for the team
func (f *TeamFactory) WithName(ownerID, parentID uuid.UUID, name string) *models.Team {
	team := f.Create(ownerID, parentID)
	team.Name = name
	return team
}

// ContentFactory provides methods to create messages, events and files
type ContentFactory struct{}

// NewContentFactory creates a new ContentFactory
func NewContentFactory() *ContentFactory {
	return &ContentFactory{}
}

// Message creates a test Message
func (f *ContentFactory) Message(ownerID, teamID uuid.UUID, content string) *models.Message {
	return &models.Message{OwnerID: ownerID, ParentID: teamID, Content: content}
}

// Event creates a test Event starting at start and lasting one day
func (f *ContentFactory) Event(ownerID, teamID uuid.UUID, title string, start time.Time) *models.Event {
	return &models.Event{
		OwnerID:     ownerID,
		ParentID:    teamID,
		Title:       title,
		Description: "An event",
		Start:       start,
		End:         start.AddDate(0, 0, 1),
	}
}

// File creates a test File record
func (f *ContentFactory) File(ownerID, teamID uuid.UUID, name string) *models.File {
	return &models.File{
		OwnerID:  ownerID,
		ParentID: teamID,
		Name:     name,
		Location: teamID.String() + "/" + name,
	}
}

// FactorySet provides access to all factories
type FactorySet struct {
	User         *UserFactory
	Organization *OrganizationFactory
	Team         *TeamFactory
	Content      *ContentFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:         NewUserFactory(),
		Organization: NewOrganizationFactory(),
		Team:         NewTeamFactory(),
		Content:      NewContentFactory(),
	}
}
