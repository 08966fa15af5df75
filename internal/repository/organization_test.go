package repository

import (
	"context"
	"testing"

	"teamspace-backend/internal/database/models"
	"teamspace-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// OrganizationRepositoryTestSuite tests the OrganizationRepository
type OrganizationRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *OrganizationRepository
	users         *UserRepository
	memberships   *MembershipRepository
	factories     *testutils.FactorySet
	ctx           context.Context
}

// SetupSuite runs before all tests in the suite
func (suite *OrganizationRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	suite.repo = NewOrganizationRepository(suite.baseTestSuite.DB)
	suite.users = NewUserRepository(suite.baseTestSuite.DB)
	suite.memberships = NewMembershipRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *OrganizationRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *OrganizationRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *OrganizationRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *OrganizationRepositoryTestSuite) createOwner() *models.User {
	owner := suite.factories.User.Create()
	suite.Require().NoError(suite.users.Create(suite.ctx, owner))
	return owner
}

// TestCreate tests creating a new organization
func (suite *OrganizationRepositoryTestSuite) TestCreate() {
	owner := suite.createOwner()
	org := suite.factories.Organization.Create(owner.ID)

	err := suite.repo.Create(suite.ctx, org)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, org.ID)
	suite.NotZero(org.CreatedAt)
	suite.NotZero(org.UpdatedAt)
}

// TestCreateDuplicateName tests the unique constraint on organization name
func (suite *OrganizationRepositoryTestSuite) TestCreateDuplicateName() {
	owner := suite.createOwner()
	suite.Require().NoError(suite.repo.Create(suite.ctx, suite.factories.Organization.WithName(owner.ID, "acme")))

	err := suite.repo.Create(suite.ctx, suite.factories.Organization.WithName(owner.ID, "acme"))

	suite.ErrorIs(err, gorm.ErrDuplicatedKey)
}

// TestGetByID tests retrieving an organization by ID
func (suite *OrganizationRepositoryTestSuite) TestGetByID() {
	owner := suite.createOwner()
	org := suite.factories.Organization.Create(owner.ID)
	suite.Require().NoError(suite.repo.Create(suite.ctx, org))

	found, err := suite.repo.GetByID(suite.ctx, org.ID)

	suite.NoError(err)
	suite.Equal(org.Name, found.Name)
	suite.Equal(owner.ID, found.OwnerID)
	suite.Equal(1, found.Members)
}

// TestGetByIDNotFound tests retrieving a non-existent organization
func (suite *OrganizationRepositoryTestSuite) TestGetByIDNotFound() {
	found, err := suite.repo.GetByID(suite.ctx, uuid.New())

	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.Nil(found)
}

// TestGetByName tests retrieving an organization by name
func (suite *OrganizationRepositoryTestSuite) TestGetByName() {
	owner := suite.createOwner()
	org := suite.factories.Organization.WithName(owner.ID, "by-name")
	suite.Require().NoError(suite.repo.Create(suite.ctx, org))

	found, err := suite.repo.GetByName(suite.ctx, "by-name")

	suite.NoError(err)
	suite.Equal(org.ID, found.ID)
}

// TestListByMember tests that owned and joined organizations are listed, others not
func (suite *OrganizationRepositoryTestSuite) TestListByMember() {
	owner := suite.createOwner()
	user := suite.createOwner()

	owned := suite.factories.Organization.WithName(user.ID, "b-owned")
	joined := suite.factories.Organization.WithName(owner.ID, "a-joined")
	other := suite.factories.Organization.WithName(owner.ID, "c-other")
	for _, org := range []*models.Organization{owned, joined, other} {
		suite.Require().NoError(suite.repo.Create(suite.ctx, org))
	}
	_, err := suite.memberships.AddOrganizationMember(suite.ctx, user.ID, joined.ID)
	suite.Require().NoError(err)

	orgs, err := suite.repo.ListByMember(suite.ctx, user.ID)

	suite.NoError(err)
	suite.Require().Len(orgs, 2)
	suite.Equal("a-joined", orgs[0].Name)
	suite.Equal("b-owned", orgs[1].Name)
}

// TestUpdate tests that editable fields change while owner and counter do not
func (suite *OrganizationRepositoryTestSuite) TestUpdate() {
	owner := suite.createOwner()
	org := suite.factories.Organization.Create(owner.ID)
	suite.Require().NoError(suite.repo.Create(suite.ctx, org))
	suite.Require().NoError(suite.repo.AdjustMembers(suite.ctx, org.ID, 2))

	org.Name = "renamed"
	org.Description = "new description"
	org.Members = 99
	org.OwnerID = uuid.New()
	suite.NoError(suite.repo.Update(suite.ctx, org))

	found, err := suite.repo.GetByID(suite.ctx, org.ID)
	suite.Require().NoError(err)
	suite.Equal("renamed", found.Name)
	suite.Equal("new description", found.Description)
	suite.Equal(3, found.Members)
	suite.Equal(owner.ID, found.OwnerID)
}

// TestDelete tests deleting an organization
func (suite *OrganizationRepositoryTestSuite) TestDelete() {
	owner := suite.createOwner()
	org := suite.factories.Organization.Create(owner.ID)
	suite.Require().NoError(suite.repo.Create(suite.ctx, org))

	suite.NoError(suite.repo.Delete(suite.ctx, org.ID))

	_, err := suite.repo.GetByID(suite.ctx, org.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.repo.Delete(suite.ctx, org.ID), gorm.ErrRecordNotFound)
}

// TestAdjustMembersClampsAtOne tests the counter floor
func (suite *OrganizationRepositoryTestSuite) TestAdjustMembersClampsAtOne() {
	owner := suite.createOwner()
	org := suite.factories.Organization.Create(owner.ID)
	suite.Require().NoError(suite.repo.Create(suite.ctx, org))

	suite.NoError(suite.repo.AdjustMembers(suite.ctx, org.ID, 1))
	suite.NoError(suite.repo.AdjustMembers(suite.ctx, org.ID, -1))
	suite.NoError(suite.repo.AdjustMembers(suite.ctx, org.ID, -1))
	suite.NoError(suite.repo.AdjustMembers(suite.ctx, org.ID, -5))

	found, err := suite.repo.GetByID(suite.ctx, org.ID)
	suite.Require().NoError(err)
	suite.Equal(1, found.Members)
}

// TestAdjustMembersMissing tests adjusting a counter of a missing organization
func (suite *OrganizationRepositoryTestSuite) TestAdjustMembersMissing() {
	suite.ErrorIs(suite.repo.AdjustMembers(suite.ctx, uuid.New(), 1), gorm.ErrRecordNotFound)
}

// Run the test suite
func TestOrganizationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationRepositoryTestSuite))
}
