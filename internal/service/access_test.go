package service_test

import (
	"context"
	"errors"
	"testing"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/mocks"
	"teamspace-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// AccessServiceTestSuite defines the test suite for guard chain evaluation
type AccessServiceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	memberships *mocks.MockMembershipServiceInterface
	access      *service.AccessService
	ctx         context.Context
	principal   *service.Principal
	scopeID     uuid.UUID
}

func (suite *AccessServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.memberships = mocks.NewMockMembershipServiceInterface(suite.ctrl)
	suite.access = service.NewAccessService(suite.memberships)
	suite.ctx = context.Background()
	suite.principal = &service.Principal{UserID: uuid.New(), Username: "ada"}
	suite.scopeID = uuid.New()
}

func (suite *AccessServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *AccessServiceTestSuite) TestAuthenticated() {
	suite.NoError(suite.access.Check(suite.ctx, suite.principal, uuid.Nil, service.Authenticated))
	suite.ErrorIs(suite.access.Check(suite.ctx, nil, uuid.Nil, service.Authenticated), apperrors.ErrAuthenticationRequired)
}

func (suite *AccessServiceTestSuite) TestUnauthenticated() {
	suite.NoError(suite.access.Check(suite.ctx, nil, uuid.Nil, service.Unauthenticated))
	suite.ErrorIs(suite.access.Check(suite.ctx, suite.principal, uuid.Nil, service.Unauthenticated), apperrors.ErrAlreadyAuthenticated)
}

func (suite *AccessServiceTestSuite) TestAnonymousNeverReachesMembershipChecks() {
	// no expectations on the membership mock: any call fails the test
	err := suite.access.Check(suite.ctx, nil, suite.scopeID, service.OrganizationMember)
	suite.ErrorIs(err, apperrors.ErrAuthenticationRequired)

	err = suite.access.Check(suite.ctx, nil, suite.scopeID, service.TeamOwner, service.Authenticated)
	suite.ErrorIs(err, apperrors.ErrAuthenticationRequired)
}

func (suite *AccessServiceTestSuite) TestMembershipCapabilities() {
	tests := []struct {
		name  string
		cap   service.Capability
		scope service.Scope
		owner bool
	}{
		{"organization member", service.OrganizationMember, service.ScopeOrganization, false},
		{"organization owner", service.OrganizationOwner, service.ScopeOrganization, true},
		{"team member", service.TeamMember, service.ScopeTeam, false},
		{"team owner", service.TeamOwner, service.ScopeTeam, true},
	}

	for _, tt := range tests {
		suite.Run(tt.name+" allowed", func() {
			suite.expect(tt.scope, tt.owner, true, nil)
			suite.NoError(suite.access.Check(suite.ctx, suite.principal, suite.scopeID, service.Authenticated, tt.cap))
		})

		suite.Run(tt.name+" denied as not found", func() {
			suite.expect(tt.scope, tt.owner, false, nil)
			err := suite.access.Check(suite.ctx, suite.principal, suite.scopeID, service.Authenticated, tt.cap)
			suite.ErrorIs(err, apperrors.ErrScopeNotFound)
		})
	}
}

func (suite *AccessServiceTestSuite) TestStoreFailureIsNotADenial() {
	boom := errors.New("connection reset")
	suite.expect(service.ScopeTeam, false, false, boom)

	err := suite.access.Check(suite.ctx, suite.principal, suite.scopeID, service.TeamMember)
	suite.ErrorIs(err, boom)
	suite.False(apperrors.IsNotFound(err))
}

func (suite *AccessServiceTestSuite) TestStopsAtFirstFailure() {
	suite.memberships.EXPECT().
		IsMember(gomock.Any(), service.ScopeOrganization, suite.scopeID, suite.principal.UserID).
		Return(false, nil)

	err := suite.access.Check(suite.ctx, suite.principal, suite.scopeID, service.OrganizationMember, service.OrganizationOwner)
	suite.ErrorIs(err, apperrors.ErrScopeNotFound)
}

func (suite *AccessServiceTestSuite) expect(scope service.Scope, owner, result bool, err error) {
	if owner {
		suite.memberships.EXPECT().IsOwner(gomock.Any(), scope, suite.scopeID, suite.principal.UserID).Return(result, err)
		return
	}
	suite.memberships.EXPECT().IsMember(gomock.Any(), scope, suite.scopeID, suite.principal.UserID).Return(result, err)
}

func TestAccessServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceTestSuite))
}
