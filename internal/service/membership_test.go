package service_test

import (
	"context"
	"testing"

	"teamspace-backend/internal/database/models"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/mocks"
	"teamspace-backend/internal/service"
	"teamspace-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// MembershipServiceTestSuite exercises the membership lifecycle against a real database
type MembershipServiceTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	svc           *services
	ctx           context.Context

	owner *models.User
	org   *service.OrganizationResponse
}

func (suite *MembershipServiceTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.svc = newServices(suite.baseTestSuite)
	suite.ctx = context.Background()
}

func (suite *MembershipServiceTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *MembershipServiceTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
	suite.owner = suite.svc.newUser(suite.T())
	suite.org = suite.svc.newOrganization(suite.T(), suite.owner)
}

func (suite *MembershipServiceTestSuite) invite(scope service.Scope, scopeID uuid.UUID, user *models.User) error {
	_, err := suite.svc.Memberships.InviteByEmail(suite.ctx, scope, scopeID, &service.InviteRequest{Email: user.Email})
	return err
}

func (suite *MembershipServiceTestSuite) TestOwnerIsMemberAfterCreate() {
	ok, err := suite.svc.Memberships.IsMember(suite.ctx, service.ScopeOrganization, suite.org.ID, suite.owner.ID)
	suite.Require().NoError(err)
	suite.True(ok)

	count, err := suite.svc.memberRepo.CountOrganizationMembers(suite.ctx, suite.org.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.Equal(1, suite.svc.orgMembers(suite.T(), suite.org.ID))
}

func (suite *MembershipServiceTestSuite) TestCounterAfterInvitesAndLeaves() {
	const invites, leaves = 4, 3

	var users []*models.User
	for i := 0; i < invites; i++ {
		u := suite.svc.newUser(suite.T())
		suite.Require().NoError(suite.invite(service.ScopeOrganization, suite.org.ID, u))
		users = append(users, u)
	}
	for i := 0; i < leaves; i++ {
		suite.Require().NoError(suite.svc.Memberships.Leave(suite.ctx, service.ScopeOrganization, suite.org.ID, users[i].ID))
	}

	members := suite.svc.orgMembers(suite.T(), suite.org.ID)
	suite.Equal(1+invites-leaves, members)

	count, err := suite.svc.memberRepo.CountOrganizationMembers(suite.ctx, suite.org.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(members), count)
}

func (suite *MembershipServiceTestSuite) TestInviteTwice() {
	user := suite.svc.newUser(suite.T())

	suite.Require().NoError(suite.invite(service.ScopeOrganization, suite.org.ID, user))
	suite.Equal(2, suite.svc.orgMembers(suite.T(), suite.org.ID))

	err := suite.invite(service.ScopeOrganization, suite.org.ID, user)
	suite.ErrorIs(err, apperrors.ErrAlreadyOrganizationMember)
	suite.Equal(2, suite.svc.orgMembers(suite.T(), suite.org.ID))

	errs, ok := apperrors.AsValidationErrors(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.CodeOrgMember, errs["email"].Code)
}

func (suite *MembershipServiceTestSuite) TestInviteUnknownEmail() {
	_, err := suite.svc.Memberships.InviteByEmail(suite.ctx, service.ScopeOrganization, suite.org.ID, &service.InviteRequest{Email: "nobody@example.com"})
	suite.ErrorIs(err, apperrors.ErrUserNotFound)
	suite.Equal(1, suite.svc.orgMembers(suite.T(), suite.org.ID))
}

func (suite *MembershipServiceTestSuite) TestInviteInvalidEmail() {
	_, err := suite.svc.Memberships.InviteByEmail(suite.ctx, service.ScopeOrganization, suite.org.ID, &service.InviteRequest{Email: ""})

	errs, ok := apperrors.AsValidationErrors(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.CodeRequired, errs["email"].Code)
}

func (suite *MembershipServiceTestSuite) TestInviteToMissingScope() {
	user := suite.svc.newUser(suite.T())
	err := suite.invite(service.ScopeOrganization, uuid.New(), user)
	suite.ErrorIs(err, apperrors.ErrOrganizationNotFound)
}

func (suite *MembershipServiceTestSuite) TestLeaveWithoutMembership() {
	stranger := suite.svc.newUser(suite.T())

	err := suite.svc.Memberships.Leave(suite.ctx, service.ScopeOrganization, suite.org.ID, stranger.ID)
	suite.ErrorIs(err, apperrors.ErrMembershipNotFound)
	suite.Equal(1, suite.svc.orgMembers(suite.T(), suite.org.ID))
}

func (suite *MembershipServiceTestSuite) TestOwnerCannotLeave() {
	err := suite.svc.Memberships.Leave(suite.ctx, service.ScopeOrganization, suite.org.ID, suite.owner.ID)
	suite.ErrorIs(err, apperrors.ErrOwnerMembership)

	ok, err := suite.svc.Memberships.IsMember(suite.ctx, service.ScopeOrganization, suite.org.ID, suite.owner.ID)
	suite.Require().NoError(err)
	suite.True(ok)
	suite.Equal(1, suite.svc.orgMembers(suite.T(), suite.org.ID))
}

func (suite *MembershipServiceTestSuite) TestRemoveMember() {
	member := suite.svc.newUser(suite.T())
	other := suite.svc.newUser(suite.T())
	suite.Require().NoError(suite.invite(service.ScopeOrganization, suite.org.ID, member))
	suite.Require().NoError(suite.invite(service.ScopeOrganization, suite.org.ID, other))

	suite.Run("non-owner cannot remove", func() {
		err := suite.svc.Memberships.RemoveMember(suite.ctx, service.ScopeOrganization, suite.org.ID, other.ID, member.ID)
		suite.ErrorIs(err, apperrors.ErrScopeNotFound)
		suite.Equal(3, suite.svc.orgMembers(suite.T(), suite.org.ID))
	})

	suite.Run("owner removes member", func() {
		err := suite.svc.Memberships.RemoveMember(suite.ctx, service.ScopeOrganization, suite.org.ID, member.ID, suite.owner.ID)
		suite.Require().NoError(err)
		suite.Equal(2, suite.svc.orgMembers(suite.T(), suite.org.ID))

		ok, err := suite.svc.Memberships.IsMember(suite.ctx, service.ScopeOrganization, suite.org.ID, member.ID)
		suite.Require().NoError(err)
		suite.False(ok)
	})

	suite.Run("removing again is not found", func() {
		err := suite.svc.Memberships.RemoveMember(suite.ctx, service.ScopeOrganization, suite.org.ID, member.ID, suite.owner.ID)
		suite.ErrorIs(err, apperrors.ErrMembershipNotFound)
		suite.Equal(2, suite.svc.orgMembers(suite.T(), suite.org.ID))
	})

	suite.Run("owner cannot remove self", func() {
		err := suite.svc.Memberships.RemoveMember(suite.ctx, service.ScopeOrganization, suite.org.ID, suite.owner.ID, suite.owner.ID)
		suite.ErrorIs(err, apperrors.ErrOwnerMembership)
	})
}

func (suite *MembershipServiceTestSuite) TestIsMemberMatchesLedgerOrOwner() {
	member := suite.svc.newUser(suite.T())
	stranger := suite.svc.newUser(suite.T())
	suite.Require().NoError(suite.invite(service.ScopeOrganization, suite.org.ID, member))

	tests := []struct {
		name   string
		userID uuid.UUID
		want   bool
	}{
		{"owner", suite.owner.ID, true},
		{"invited member", member.ID, true},
		{"stranger", stranger.ID, false},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			ok, err := suite.svc.Memberships.IsMember(suite.ctx, service.ScopeOrganization, suite.org.ID, tt.userID)
			suite.Require().NoError(err)
			suite.Equal(tt.want, ok)
		})
	}

	suite.Run("owner without ledger row", func() {
		suite.Require().NoError(suite.svc.memberRepo.RemoveOrganizationMember(suite.ctx, suite.owner.ID, suite.org.ID))
		ok, err := suite.svc.Memberships.IsMember(suite.ctx, service.ScopeOrganization, suite.org.ID, suite.owner.ID)
		suite.Require().NoError(err)
		suite.True(ok)
	})

	suite.Run("missing scope", func() {
		ok, err := suite.svc.Memberships.IsMember(suite.ctx, service.ScopeOrganization, uuid.New(), suite.owner.ID)
		suite.Require().NoError(err)
		suite.False(ok)
	})
}

func (suite *MembershipServiceTestSuite) TestListMembers() {
	member := suite.svc.newUser(suite.T())
	suite.Require().NoError(suite.invite(service.ScopeOrganization, suite.org.ID, member))

	members, err := suite.svc.Memberships.ListMembers(suite.ctx, service.ScopeOrganization, suite.org.ID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 2)

	byID := map[uuid.UUID]service.MemberResponse{}
	for _, m := range members {
		byID[m.UserID] = m
	}
	suite.True(byID[suite.owner.ID].IsOwner)
	suite.False(byID[member.ID].IsOwner)
	suite.Equal(member.Username, byID[member.ID].Username)
	suite.False(byID[member.ID].JoinedAt.IsZero())

	_, err = suite.svc.Memberships.ListMembers(suite.ctx, service.ScopeOrganization, uuid.New())
	suite.ErrorIs(err, apperrors.ErrOrganizationNotFound)
}

func (suite *MembershipServiceTestSuite) TestTeamScope() {
	team := suite.svc.newTeam(suite.T(), suite.owner, suite.org.ID, "core")
	user := suite.svc.newUser(suite.T())

	suite.Require().NoError(suite.invite(service.ScopeTeam, team.ID, user))
	suite.Equal(2, suite.svc.teamMembers(suite.T(), team.ID))

	err := suite.invite(service.ScopeTeam, team.ID, user)
	suite.ErrorIs(err, apperrors.ErrAlreadyTeamMember)
	suite.Equal(2, suite.svc.teamMembers(suite.T(), team.ID))

	suite.Require().NoError(suite.svc.Memberships.Leave(suite.ctx, service.ScopeTeam, team.ID, user.ID))
	suite.Equal(1, suite.svc.teamMembers(suite.T(), team.ID))

	owner, err := suite.svc.Memberships.IsOwner(suite.ctx, service.ScopeTeam, team.ID, suite.owner.ID)
	suite.Require().NoError(err)
	suite.True(owner)
}

func (suite *MembershipServiceTestSuite) TestCounterNeverDropsBelowOne() {
	suite.Require().NoError(suite.svc.Orgs.IncrementMembers(suite.ctx, suite.org.ID, -5))
	suite.Equal(1, suite.svc.orgMembers(suite.T(), suite.org.ID))

	err := suite.svc.Orgs.IncrementMembers(suite.ctx, uuid.New(), 1)
	suite.ErrorIs(err, apperrors.ErrOrganizationNotFound)
}

// inlineTx runs fn directly; the ledger mocks stand in for the store
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MembershipRaceTestSuite covers the unique index rejecting a row that passed the ledger check
type MembershipRaceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	users       *mocks.MockUserRepositoryInterface
	orgs        *mocks.MockOrganizationRepositoryInterface
	teams       *mocks.MockTeamRepositoryInterface
	memberships *mocks.MockMembershipRepositoryInterface
	svc         *service.MembershipService
	ctx         context.Context

	invitee *models.User
}

func (suite *MembershipRaceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.users = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.orgs = mocks.NewMockOrganizationRepositoryInterface(suite.ctrl)
	suite.teams = mocks.NewMockTeamRepositoryInterface(suite.ctrl)
	suite.memberships = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.svc = service.NewMembershipService(suite.users, suite.orgs, suite.teams, suite.memberships, inlineTx{}, service.NewValidator())
	suite.ctx = context.Background()

	suite.invitee = &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Email: "late@example.com"}
	suite.users.EXPECT().GetByEmail(gomock.Any(), "late@example.com").Return(suite.invitee, nil)
}

func (suite *MembershipRaceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *MembershipRaceTestSuite) TestOrganizationInviteLosesRace() {
	orgID := uuid.New()
	suite.orgs.EXPECT().GetByID(gomock.Any(), orgID).Return(&models.Organization{BaseModel: models.BaseModel{ID: orgID}, OwnerID: uuid.New()}, nil)
	suite.memberships.EXPECT().IsOrganizationMember(gomock.Any(), suite.invitee.ID, orgID).Return(false, nil)
	suite.memberships.EXPECT().AddOrganizationMember(gomock.Any(), suite.invitee.ID, orgID).Return(nil, gorm.ErrDuplicatedKey)
	suite.orgs.EXPECT().AdjustMembers(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := suite.svc.InviteByEmail(suite.ctx, service.ScopeOrganization, orgID, &service.InviteRequest{Email: "late@example.com"})

	suite.True(apperrors.IsAlreadyMember(err))
	suite.ErrorIs(err, apperrors.ErrAlreadyOrganizationMember)
}

func (suite *MembershipRaceTestSuite) TestTeamInviteLosesRace() {
	teamID := uuid.New()
	suite.teams.EXPECT().GetByID(gomock.Any(), teamID).Return(&models.Team{BaseModel: models.BaseModel{ID: teamID}, OwnerID: uuid.New()}, nil)
	suite.memberships.EXPECT().IsTeamMember(gomock.Any(), suite.invitee.ID, teamID).Return(false, nil)
	suite.memberships.EXPECT().AddTeamMember(gomock.Any(), suite.invitee.ID, teamID).Return(nil, gorm.ErrDuplicatedKey)
	suite.teams.EXPECT().AdjustMembers(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := suite.svc.InviteByEmail(suite.ctx, service.ScopeTeam, teamID, &service.InviteRequest{Email: "late@example.com"})

	suite.True(apperrors.IsAlreadyMember(err))
	suite.ErrorIs(err, apperrors.ErrAlreadyTeamMember)
}

func TestMembershipRaceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipRaceTestSuite))
}

func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
