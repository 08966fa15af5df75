package repository

import (
	"context"
	"testing"

	"teamspace-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UserRepositoryTestSuite tests the UserRepository
type UserRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *UserRepository
	factories     *testutils.FactorySet
	ctx           context.Context
}

// SetupSuite runs before all tests in the suite
func (suite *UserRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewUserRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *UserRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *UserRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreateAndLookup tests creating a user and finding it by each key
func (suite *UserRepositoryTestSuite) TestCreateAndLookup() {
	user := suite.factories.User.Create()
	suite.Require().NoError(suite.repo.Create(suite.ctx, user))

	byID, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal(user.Email, byID.Email)
	suite.True(byID.IsActive)

	byEmail, err := suite.repo.GetByEmail(suite.ctx, user.Email)
	suite.NoError(err)
	suite.Equal(user.ID, byEmail.ID)

	byUsername, err := suite.repo.GetByUsername(suite.ctx, user.Username)
	suite.NoError(err)
	suite.Equal(user.ID, byUsername.ID)
}

// TestUniqueUsernameAndEmail tests both unique indexes
func (suite *UserRepositoryTestSuite) TestUniqueUsernameAndEmail() {
	user := suite.factories.User.Create()
	suite.Require().NoError(suite.repo.Create(suite.ctx, user))

	sameEmail := suite.factories.User.WithEmail(user.Email)
	suite.ErrorIs(suite.repo.Create(suite.ctx, sameEmail), gorm.ErrDuplicatedKey)

	sameUsername := suite.factories.User.Create()
	sameUsername.Username = user.Username
	suite.ErrorIs(suite.repo.Create(suite.ctx, sameUsername), gorm.ErrDuplicatedKey)
}

// TestGetByEmailNotFound tests looking up an unknown email
func (suite *UserRepositoryTestSuite) TestGetByEmailNotFound() {
	_, err := suite.repo.GetByEmail(suite.ctx, "nobody@example.com")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetDisplayByIDs tests that only display fields are loaded and missing ids are skipped
func (suite *UserRepositoryTestSuite) TestGetDisplayByIDs() {
	user := suite.factories.User.WithName("Ada", "Lovelace")
	suite.Require().NoError(suite.repo.Create(suite.ctx, user))

	users, err := suite.repo.GetDisplayByIDs(suite.ctx, []uuid.UUID{user.ID, uuid.New()})

	suite.NoError(err)
	suite.Require().Len(users, 1)
	suite.Equal("Ada", users[0].FirstName)
	suite.Equal("Lovelace", users[0].LastName)
	suite.Empty(users[0].Email)
	suite.Empty(users[0].PasswordHash)
}

// TestUpdate tests saving profile changes
func (suite *UserRepositoryTestSuite) TestUpdate() {
	user := suite.factories.User.Create()
	suite.Require().NoError(suite.repo.Create(suite.ctx, user))

	user.FirstName = "Grace"
	user.IsActive = false
	suite.NoError(suite.repo.Update(suite.ctx, user))

	found, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal("Grace", found.FirstName)
	suite.False(found.IsActive)
}

// Run the test suite
func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
