package repository

import (
	"context"
	"testing"
	"time"

	"teamspace-backend/internal/database/models"
	"teamspace-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ContentRepositoryTestSuite tests the message, event and file repositories
type ContentRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	messages      *MessageRepository
	events        *EventRepository
	files         *FileRepository
	factories     *testutils.FactorySet
	ctx           context.Context

	owner *models.User
	team  *models.Team
}

// SetupSuite runs before all tests in the suite
func (suite *ContentRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	db := suite.baseTestSuite.DB
	suite.messages = NewMessageRepository(db)
	suite.events = NewEventRepository(db)
	suite.files = NewFileRepository(db)
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *ContentRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest creates the team the content belongs to
func (suite *ContentRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	db := suite.baseTestSuite.DB
	suite.owner = suite.factories.User.Create()
	suite.Require().NoError(NewUserRepository(db).Create(suite.ctx, suite.owner))
	org := suite.factories.Organization.Create(suite.owner.ID)
	suite.Require().NoError(NewOrganizationRepository(db).Create(suite.ctx, org))
	suite.team = suite.factories.Team.Create(suite.owner.ID, org.ID)
	suite.Require().NoError(NewTeamRepository(db).Create(suite.ctx, suite.team))
}

// TearDownTest runs after each test
func (suite *ContentRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestMessagesNewestFirst tests message ordering
func (suite *ContentRepositoryTestSuite) TestMessagesNewestFirst() {
	now := time.Now().UTC()
	older := suite.factories.Content.Message(suite.owner.ID, suite.team.ID, "older")
	older.CreatedAt = now.Add(-time.Hour)
	newer := suite.factories.Content.Message(suite.owner.ID, suite.team.ID, "newer")
	newer.CreatedAt = now
	suite.Require().NoError(suite.messages.Create(suite.ctx, older))
	suite.Require().NoError(suite.messages.Create(suite.ctx, newer))

	messages, err := suite.messages.ListByTeam(suite.ctx, suite.team.ID)

	suite.NoError(err)
	suite.Require().Len(messages, 2)
	suite.Equal("newer", messages[0].Content)
	suite.Equal("older", messages[1].Content)
}

// TestEventsLatestStartFirst tests event ordering by start date
func (suite *ContentRepositoryTestSuite) TestEventsLatestStartFirst() {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	early := suite.factories.Content.Event(suite.owner.ID, suite.team.ID, "early", day)
	late := suite.factories.Content.Event(suite.owner.ID, suite.team.ID, "late", day.AddDate(0, 1, 0))
	suite.Require().NoError(suite.events.Create(suite.ctx, early))
	suite.Require().NoError(suite.events.Create(suite.ctx, late))

	events, err := suite.events.ListByTeam(suite.ctx, suite.team.ID)

	suite.NoError(err)
	suite.Require().Len(events, 2)
	suite.Equal("late", events[0].Title)
	suite.Equal("early", events[1].Title)
}

// TestFiles tests file creation, lookup and ordering
func (suite *ContentRepositoryTestSuite) TestFiles() {
	now := time.Now().UTC()
	first := suite.factories.Content.File(suite.owner.ID, suite.team.ID, "a.txt")
	first.CreatedAt = now.Add(-time.Minute)
	second := suite.factories.Content.File(suite.owner.ID, suite.team.ID, "b.txt")
	second.CreatedAt = now
	suite.Require().NoError(suite.files.Create(suite.ctx, first))
	suite.Require().NoError(suite.files.Create(suite.ctx, second))

	files, err := suite.files.ListByTeam(suite.ctx, suite.team.ID)
	suite.NoError(err)
	suite.Require().Len(files, 2)
	suite.Equal("b.txt", files[0].Name)

	found, err := suite.files.GetByID(suite.ctx, first.ID)
	suite.NoError(err)
	suite.Equal(first.Location, found.Location)

	_, err = suite.files.GetByID(suite.ctx, uuid.New())
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestDeleteByTeams tests removing content of several teams
func (suite *ContentRepositoryTestSuite) TestDeleteByTeams() {
	suite.Require().NoError(suite.messages.Create(suite.ctx, suite.factories.Content.Message(suite.owner.ID, suite.team.ID, "hi")))
	suite.Require().NoError(suite.events.Create(suite.ctx, suite.factories.Content.Event(suite.owner.ID, suite.team.ID, "e", time.Now().UTC())))
	suite.Require().NoError(suite.files.Create(suite.ctx, suite.factories.Content.File(suite.owner.ID, suite.team.ID, "f")))

	ids := []uuid.UUID{suite.team.ID}
	suite.NoError(suite.messages.DeleteByTeams(suite.ctx, ids))
	suite.NoError(suite.events.DeleteByTeams(suite.ctx, ids))
	suite.NoError(suite.files.DeleteByTeams(suite.ctx, ids))

	messages, _ := suite.messages.ListByTeam(suite.ctx, suite.team.ID)
	events, _ := suite.events.ListByTeam(suite.ctx, suite.team.ID)
	files, _ := suite.files.ListByTeam(suite.ctx, suite.team.ID)
	suite.Empty(messages)
	suite.Empty(events)
	suite.Empty(files)
}

// Run the test suite
func TestContentRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ContentRepositoryTestSuite))
}
