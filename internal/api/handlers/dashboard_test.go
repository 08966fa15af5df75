package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"teamspace-backend/internal/api/handlers"
	"teamspace-backend/internal/auth"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/mocks"
	"teamspace-backend/internal/service"
	"teamspace-backend/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// signedIn installs principal the way the session middleware would
func signedIn(principal *service.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetPrincipal(c, principal)
		c.Next()
	}
}

// DashboardHandlerTestSuite defines the test suite for DashboardHandler
type DashboardHandlerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	users     *mocks.MockUserServiceInterface
	orgs      *mocks.MockOrganizationServiceInterface
	principal *service.Principal
	httpSuite *testutils.HTTPTestSuite
}

func (suite *DashboardHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.users = mocks.NewMockUserServiceInterface(suite.ctrl)
	suite.orgs = mocks.NewMockOrganizationServiceInterface(suite.ctrl)
	suite.principal = &service.Principal{UserID: uuid.New(), Username: "jdoe"}

	handler := handlers.NewDashboardHandler(suite.users, suite.orgs)
	frontend := handlers.NewFrontendHandler()

	suite.httpSuite = testutils.SetupHTTPTest(signedIn(suite.principal))
	router := suite.httpSuite.Router
	router.GET("/", frontend.Home)
	router.GET("/about", frontend.About)
	router.GET("/d/", handler.Home)
	router.GET("/d/u/", handler.Profile)
	router.PUT("/d/u/edit/", handler.EditProfile)
	router.PUT("/d/u/password/", handler.ChangePassword)
	router.GET("/d/o/view/", handler.ListOrganizations)
	router.POST("/d/o/create/", handler.CreateOrganization)
}

func (suite *DashboardHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *DashboardHandlerTestSuite) user() *service.UserResponse {
	return &service.UserResponse{
		ID:        suite.principal.UserID,
		FirstName: "Jane",
		LastName:  "Doe",
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		IsActive:  true,
	}
}

func (suite *DashboardHandlerTestSuite) TestFrontendPages() {
	var page handlers.PageResponse
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/", nil)
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &page)
	assert.Equal(suite.T(), "/signup", page.Links["signup"])

	recorder = suite.httpSuite.MakeRequest(http.MethodGet, "/about", nil)
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &page)
	assert.Equal(suite.T(), "About", page.Title)
}

func (suite *DashboardHandlerTestSuite) TestHome() {
	suite.T().Run("Plain", func(t *testing.T) {
		suite.users.EXPECT().GetByID(gomock.Any(), suite.principal.UserID).Return(suite.user(), nil)

		var response handlers.DashboardResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/", nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "jdoe", response.User.Username)
		assert.Empty(t, response.Notice)
	})

	suite.T().Run("NotFoundNotice", func(t *testing.T) {
		suite.users.EXPECT().GetByID(gomock.Any(), suite.principal.UserID).Return(suite.user(), nil)

		var response handlers.DashboardResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/?notice=not_found", nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "The request could not be found.", response.Notice)
	})

	suite.T().Run("UnknownNoticeIgnored", func(t *testing.T) {
		suite.users.EXPECT().GetByID(gomock.Any(), suite.principal.UserID).Return(suite.user(), nil)

		var response handlers.DashboardResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/?notice=bogus", nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Empty(t, response.Notice)
	})
}

func (suite *DashboardHandlerTestSuite) TestProfile() {
	suite.users.EXPECT().GetByID(gomock.Any(), suite.principal.UserID).Return(suite.user(), nil)

	var response service.UserResponse
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/u/", nil)
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), "jdoe@example.com", response.Email)
}

func (suite *DashboardHandlerTestSuite) TestEditProfile() {
	suite.T().Run("Success", func(t *testing.T) {
		updated := suite.user()
		updated.FirstName = "Janet"
		suite.users.EXPECT().
			UpdateProfile(gomock.Any(), suite.principal.UserID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, req *service.UpdateProfileRequest) (*service.UserResponse, error) {
				assert.Equal(t, "Janet", req.FirstName)
				return updated, nil
			})

		var response service.UserResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/d/u/edit/", map[string]string{
			"first_name": "Janet",
			"last_name":  "Doe",
			"username":   "jdoe",
			"email":      "jdoe@example.com",
		})
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "Janet", response.FirstName)
	})

	suite.T().Run("UsernameTaken", func(t *testing.T) {
		fieldErrs := apperrors.ValidationErrors{}.Add("username", apperrors.CodeUnique, "This username is already taken.")
		suite.users.EXPECT().UpdateProfile(gomock.Any(), suite.principal.UserID, gomock.Any()).Return(nil, fieldErrs)

		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/d/u/edit/", map[string]string{"username": "taken"})
		testutils.AssertFieldError(t, recorder, "username", apperrors.CodeUnique)
	})

	suite.T().Run("InvalidJSON", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequestWithHeaders(http.MethodPut, "/d/u/edit/", "not an object", nil)
		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "Invalid request body")
	})
}

func (suite *DashboardHandlerTestSuite) TestChangePassword() {
	suite.T().Run("Success", func(t *testing.T) {
		suite.users.EXPECT().ChangePassword(gomock.Any(), suite.principal.UserID, gomock.Any()).Return(nil)

		var response handlers.NoticeResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/d/u/password/", map[string]string{
			"old_password": "old-secret",
			"password_one": "new-secret-1",
			"password_two": "new-secret-1",
		})
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "Password successfully changed.", response.Message)
	})

	suite.T().Run("Mismatch", func(t *testing.T) {
		fieldErrs := apperrors.ValidationErrors{}.Add("password_two", apperrors.CodePasswordMismatch, "The two password fields didn't match.")
		suite.users.EXPECT().ChangePassword(gomock.Any(), suite.principal.UserID, gomock.Any()).Return(fieldErrs)

		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/d/u/password/", map[string]string{"password_two": "x"})
		testutils.AssertFieldError(t, recorder, "password_two", apperrors.CodePasswordMismatch)
	})
}

func (suite *DashboardHandlerTestSuite) TestListOrganizations() {
	suite.T().Run("Empty", func(t *testing.T) {
		suite.orgs.EXPECT().ListForMember(gomock.Any(), suite.principal.UserID).Return(nil, nil)

		var response handlers.OrganizationListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/o/view/", nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.NotNil(t, response.Organizations)
		assert.Empty(t, response.Organizations)
		assert.Contains(t, response.Notice, "not a member of any organization")
	})

	suite.T().Run("WithActiveTeams", func(t *testing.T) {
		org := service.MemberOrganizationResponse{
			OrganizationResponse: service.OrganizationResponse{ID: uuid.New(), Name: "Acme"},
			ActiveTeams:          []service.TeamResponse{{ID: uuid.New(), Name: "Platform"}},
		}
		suite.orgs.EXPECT().ListForMember(gomock.Any(), suite.principal.UserID).Return([]service.MemberOrganizationResponse{org}, nil)

		var response handlers.OrganizationListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/o/view/", nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Len(t, response.Organizations, 1)
		assert.Equal(t, "Platform", response.Organizations[0].ActiveTeams[0].Name)
		assert.Empty(t, response.Notice)
	})

	suite.T().Run("ServiceError", func(t *testing.T) {
		suite.orgs.EXPECT().ListForMember(gomock.Any(), suite.principal.UserID).Return(nil, errors.New("database down"))

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/d/o/view/", nil)
		testutils.AssertErrorResponse(t, recorder, http.StatusInternalServerError, "Failed to list organizations")
	})
}

func (suite *DashboardHandlerTestSuite) TestCreateOrganization() {
	suite.T().Run("Success", func(t *testing.T) {
		orgID := uuid.New()
		suite.orgs.EXPECT().
			Create(gomock.Any(), suite.principal.UserID, gomock.Any()).
			Return(&service.OrganizationResponse{ID: orgID, OwnerID: suite.principal.UserID, Name: "Acme", Members: 1}, nil)

		var response service.OrganizationResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/d/o/create/", map[string]string{
			"name":        "Acme",
			"description": "Widgets",
		})
		testutils.AssertJSONResponse(t, recorder, http.StatusCreated, &response)
		assert.Equal(t, "/o/"+orgID.String()+"/", recorder.Header().Get("Location"))
		assert.Equal(t, 1, response.Members)
	})

	suite.T().Run("NameTaken", func(t *testing.T) {
		fieldErrs := apperrors.ValidationErrors{}.Add("name", apperrors.CodeUnique, "An organization with this name already exists.")
		suite.orgs.EXPECT().Create(gomock.Any(), suite.principal.UserID, gomock.Any()).Return(nil, fieldErrs)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/d/o/create/", map[string]string{"name": "Acme"})
		testutils.AssertFieldError(t, recorder, "name", apperrors.CodeUnique)
	})
}

func TestDashboardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardHandlerTestSuite))
}
