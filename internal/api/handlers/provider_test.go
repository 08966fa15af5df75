package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"teamspace-backend/internal/api/handlers"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/mocks"
	"teamspace-backend/internal/service"
	"teamspace-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ProviderHandlerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	drive     *mocks.MockDriveServiceInterface
	principal *service.Principal
	httpSuite *testutils.HTTPTestSuite
}

func (suite *ProviderHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.drive = mocks.NewMockDriveServiceInterface(suite.ctrl)
	suite.principal = &service.Principal{UserID: uuid.New(), Username: "member"}

	handler := handlers.NewProviderHandler(suite.drive)
	suite.httpSuite = testutils.SetupHTTPTest(signedIn(suite.principal))
	suite.httpSuite.Router.GET("/providers/google", handler.GoogleCallback)
}

func (suite *ProviderHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ProviderHandlerTestSuite) TestGoogleCallback() {
	suite.T().Run("ImportsAndRedirects", func(t *testing.T) {
		teamID := uuid.New()
		suite.drive.EXPECT().
			Import(gomock.Any(), suite.principal.UserID, "auth-code", "signed-state").
			Return(&service.FileResponse{ID: uuid.New(), TeamID: teamID, Name: "plan.docx"}, nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/providers/google?code=auth-code&state=signed-state", nil)
		testutils.AssertRedirect(t, recorder, fmt.Sprintf("/t/%s/files/", teamID))
	})

	suite.T().Run("MissingCode", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/providers/google?error=access_denied&state=signed-state", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	suite.T().Run("TamperedState", func(t *testing.T) {
		suite.drive.EXPECT().Import(gomock.Any(), suite.principal.UserID, "auth-code", "forged").Return(nil, apperrors.ErrInvalidToken)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/providers/google?code=auth-code&state=forged", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	suite.T().Run("NoLongerMember", func(t *testing.T) {
		suite.drive.EXPECT().Import(gomock.Any(), suite.principal.UserID, "auth-code", "signed-state").Return(nil, apperrors.ErrScopeNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/providers/google?code=auth-code&state=signed-state", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	suite.T().Run("GoogleFailure", func(t *testing.T) {
		suite.drive.EXPECT().
			Import(gomock.Any(), suite.principal.UserID, "auth-code", "signed-state").
			Return(nil, fmt.Errorf("%w: code exchange", apperrors.ErrProviderRequestFailed))

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/providers/google?code=auth-code&state=signed-state", nil)
		testutils.AssertErrorResponse(t, recorder, http.StatusBadGateway, "could not be imported")
	})
}

func TestProviderHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderHandlerTestSuite))
}
