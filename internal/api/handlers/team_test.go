package handlers_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

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

// TeamHandlerTestSuite defines the test suite for TeamHandler
type TeamHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	teams       *mocks.MockTeamServiceInterface
	memberships *mocks.MockMembershipServiceInterface
	content     *mocks.MockContentServiceInterface
	drive       *mocks.MockDriveServiceInterface
	principal   *service.Principal
	orgID       uuid.UUID
	teamID      uuid.UUID
	httpSuite   *testutils.HTTPTestSuite
}

func (suite *TeamHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.teams = mocks.NewMockTeamServiceInterface(suite.ctrl)
	suite.memberships = mocks.NewMockMembershipServiceInterface(suite.ctrl)
	suite.content = mocks.NewMockContentServiceInterface(suite.ctrl)
	suite.drive = mocks.NewMockDriveServiceInterface(suite.ctrl)
	suite.principal = &service.Principal{UserID: uuid.New(), Username: "member"}
	suite.orgID = uuid.New()
	suite.teamID = uuid.New()

	handler := handlers.NewTeamHandler(suite.teams, suite.memberships, suite.content, suite.drive)
	suite.httpSuite = testutils.SetupHTTPTest(signedIn(suite.principal))

	t := suite.httpSuite.Router.Group("/t/:id")
	{
		t.GET("/", handler.Home)
		t.POST("/leave/", handler.Leave)
		t.POST("/delete/", handler.Delete)
		t.GET("/chat/", handler.Chat)
		t.POST("/chat/", handler.Chat)
		t.GET("/events/", handler.Events)
		t.POST("/events/", handler.Events)
		t.GET("/files/", handler.Files)
		t.POST("/files/", handler.Files)
		t.GET("/users/", handler.Users)
		t.PUT("/m/edit/", handler.Edit)
		t.GET("/m/users/", handler.ManageUsers)
		t.POST("/m/users/", handler.ManageUsers)
	}
}

func (suite *TeamHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TeamHandlerTestSuite) path(suffix string) string {
	return "/t/" + suite.teamID.String() + suffix
}

func (suite *TeamHandlerTestSuite) team() *service.TeamResponse {
	return &service.TeamResponse{
		ID:       suite.teamID,
		ParentID: suite.orgID,
		Parent:   &service.OrganizationSummary{ID: suite.orgID, Name: "Acme"},
		Name:     "Platform",
		Members:  2,
	}
}

func (suite *TeamHandlerTestSuite) author() *service.AuthorResponse {
	return &service.AuthorResponse{ID: suite.principal.UserID, Username: suite.principal.Username}
}

func (suite *TeamHandlerTestSuite) TestHome() {
	suite.teams.EXPECT().GetByID(gomock.Any(), suite.teamID).Return(suite.team(), nil)

	var response service.TeamResponse
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/"), nil)
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), "Acme", response.Parent.Name)
}

func (suite *TeamHandlerTestSuite) TestLeave() {
	suite.T().Run("RedirectsToParentTeams", func(t *testing.T) {
		suite.teams.EXPECT().GetByID(gomock.Any(), suite.teamID).Return(suite.team(), nil)
		suite.memberships.EXPECT().Leave(gomock.Any(), service.ScopeTeam, suite.teamID, suite.principal.UserID).Return(nil)

		var response handlers.NoticeResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/leave/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "/o/"+suite.orgID.String()+"/t/view/", response.Redirect)
	})

	suite.T().Run("TeamGone", func(t *testing.T) {
		suite.teams.EXPECT().GetByID(gomock.Any(), suite.teamID).Return(nil, apperrors.ErrTeamNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/leave/"), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func (suite *TeamHandlerTestSuite) TestDelete() {
	suite.T().Run("Success", func(t *testing.T) {
		suite.teams.EXPECT().GetByID(gomock.Any(), suite.teamID).Return(suite.team(), nil)
		suite.teams.EXPECT().Delete(gomock.Any(), suite.teamID, suite.principal.UserID).Return(nil)

		var response handlers.NoticeResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/delete/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "The team has been deleted.", response.Message)
		assert.Equal(t, "/o/"+suite.orgID.String()+"/t/view/", response.Redirect)
	})

	suite.T().Run("NotOwner", func(t *testing.T) {
		suite.teams.EXPECT().GetByID(gomock.Any(), suite.teamID).Return(suite.team(), nil)
		suite.teams.EXPECT().Delete(gomock.Any(), suite.teamID, suite.principal.UserID).Return(apperrors.ErrScopeNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/delete/"), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func (suite *TeamHandlerTestSuite) TestChat() {
	suite.T().Run("EmptyNotice", func(t *testing.T) {
		suite.content.EXPECT().ListMessages(gomock.Any(), suite.teamID).Return(nil, nil)

		var response handlers.MessageListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/chat/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Empty(t, response.Messages)
		assert.Equal(t, "There are no messages to display.", response.Notice)
	})

	suite.T().Run("List", func(t *testing.T) {
		messages := []service.MessageResponse{
			{ID: uuid.New(), TeamID: suite.teamID, Message: "second", User: suite.author(), CreatedAt: time.Now()},
			{ID: uuid.New(), TeamID: suite.teamID, Message: "first", User: suite.author(), CreatedAt: time.Now().Add(-time.Minute)},
		}
		suite.content.EXPECT().ListMessages(gomock.Any(), suite.teamID).Return(messages, nil)

		var response handlers.MessageListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/chat/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Len(t, response.Messages, 2)
		assert.Equal(t, "second", response.Messages[0].Message)
		assert.Empty(t, response.Notice)
	})

	suite.T().Run("Post", func(t *testing.T) {
		suite.content.EXPECT().
			CreateMessage(gomock.Any(), suite.principal.UserID, suite.teamID, &service.MessageRequest{Message: "hello"}).
			Return(&service.MessageResponse{ID: uuid.New(), TeamID: suite.teamID, Message: "hello", User: suite.author()}, nil)

		var response service.MessageResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/chat/"), map[string]string{"message": "hello"})
		testutils.AssertJSONResponse(t, recorder, http.StatusCreated, &response)
		assert.Equal(t, "hello", response.Message)
	})

	suite.T().Run("PostEmpty", func(t *testing.T) {
		fieldErrs := apperrors.ValidationErrors{}.Add("message", apperrors.CodeRequired, "Please enter a message.")
		suite.content.EXPECT().CreateMessage(gomock.Any(), suite.principal.UserID, suite.teamID, gomock.Any()).Return(nil, fieldErrs)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/chat/"), map[string]string{"message": ""})
		testutils.AssertFieldError(t, recorder, "message", apperrors.CodeRequired)
	})
}

func (suite *TeamHandlerTestSuite) TestEvents() {
	suite.T().Run("EmptyNotice", func(t *testing.T) {
		suite.content.EXPECT().ListEvents(gomock.Any(), suite.teamID).Return(nil, nil)

		var response handlers.EventListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/events/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "There are no events to display.", response.Notice)
	})

	suite.T().Run("Post", func(t *testing.T) {
		req := &service.EventRequest{Title: "Offsite", Start: "2026-05-01", End: "2026-05-02"}
		suite.content.EXPECT().
			CreateEvent(gomock.Any(), suite.principal.UserID, suite.teamID, req).
			Return(&service.EventResponse{ID: uuid.New(), TeamID: suite.teamID, Title: "Offsite", User: suite.author()}, nil)

		var response service.EventResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/events/"), req)
		testutils.AssertJSONResponse(t, recorder, http.StatusCreated, &response)
		assert.Equal(t, "Offsite", response.Title)
	})

	suite.T().Run("PostBadDate", func(t *testing.T) {
		fieldErrs := apperrors.ValidationErrors{}.Add("start", apperrors.CodeInvalid, "Enter a valid date.")
		suite.content.EXPECT().CreateEvent(gomock.Any(), suite.principal.UserID, suite.teamID, gomock.Any()).Return(nil, fieldErrs)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/events/"), map[string]string{"title": "x", "start": "soon"})
		testutils.AssertFieldError(t, recorder, "start", apperrors.CodeInvalid)
	})
}

func (suite *TeamHandlerTestSuite) TestFilesList() {
	suite.T().Run("EmptyNotice", func(t *testing.T) {
		suite.content.EXPECT().ListFiles(gomock.Any(), suite.teamID).Return(nil, nil)

		var response handlers.FileListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/files/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "There are no files to display. Share some!", response.Notice)
	})

	suite.T().Run("List", func(t *testing.T) {
		suite.content.EXPECT().ListFiles(gomock.Any(), suite.teamID).Return([]service.FileResponse{
			{ID: uuid.New(), TeamID: suite.teamID, Name: "notes.txt", User: suite.author()},
		}, nil)

		var response handlers.FileListResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/files/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "notes.txt", response.Files[0].Name)
	})
}

func (suite *TeamHandlerTestSuite) TestFilesDownload() {
	suite.T().Run("Success", func(t *testing.T) {
		fileID := uuid.New()
		suite.content.EXPECT().
			OpenFile(gomock.Any(), suite.teamID, fileID).
			Return(&service.FileResponse{ID: fileID, TeamID: suite.teamID, Name: "notes.txt"}, io.NopCloser(strings.NewReader("meeting notes")), nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/files/?file_id="+fileID.String()), nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, `attachment; filename="notes.txt"`, recorder.Header().Get("Content-Disposition"))
		assert.Equal(t, "meeting notes", recorder.Body.String())
	})

	suite.T().Run("OtherTeamsFile", func(t *testing.T) {
		fileID := uuid.New()
		suite.content.EXPECT().OpenFile(gomock.Any(), suite.teamID, fileID).Return(nil, nil, apperrors.ErrFileNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/files/?file_id="+fileID.String()), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	suite.T().Run("MalformedID", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/files/?file_id=nope"), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func (suite *TeamHandlerTestSuite) TestFilesUpload() {
	suite.T().Run("Success", func(t *testing.T) {
		suite.content.EXPECT().
			UploadFile(gomock.Any(), suite.principal.UserID, suite.teamID, "report.pdf", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, name string, r io.Reader) (*service.FileResponse, error) {
				body, err := io.ReadAll(r)
				assert.NoError(t, err)
				assert.Equal(t, "pdf bytes", string(body))
				return &service.FileResponse{ID: uuid.New(), TeamID: suite.teamID, Name: name}, nil
			})

		var response service.FileResponse
		recorder := suite.httpSuite.MakeMultipartRequest(http.MethodPost, suite.path("/files/"), "file", "report.pdf", []byte("pdf bytes"))
		testutils.AssertJSONResponse(t, recorder, http.StatusCreated, &response)
		assert.Equal(t, "report.pdf", response.Name)
	})

	suite.T().Run("WrongField", func(t *testing.T) {
		recorder := suite.httpSuite.MakeMultipartRequest(http.MethodPost, suite.path("/files/"), "attachment", "report.pdf", []byte("x"))
		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "A file is required")
	})
}

func (suite *TeamHandlerTestSuite) TestFilesDriveImport() {
	suite.T().Run("ReturnsAuthorizeURL", func(t *testing.T) {
		suite.drive.EXPECT().
			AuthorizeURL(gomock.Any(), suite.principal.UserID, suite.teamID, &service.DriveImportRequest{FileID: "drive-123"}).
			Return("https://accounts.google.com/o/oauth2/auth?state=signed", nil)

		var response handlers.DriveAuthorizeResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/files/"), map[string]string{"file_id": "drive-123"})
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Contains(t, response.AuthorizeURL, "state=signed")
	})

	suite.T().Run("NotConfigured", func(t *testing.T) {
		suite.drive.EXPECT().AuthorizeURL(gomock.Any(), suite.principal.UserID, suite.teamID, gomock.Any()).Return("", apperrors.ErrProviderNotConfigured)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/files/"), map[string]string{"file_id": "drive-123"})
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})

	suite.T().Run("UnexpectedError", func(t *testing.T) {
		suite.drive.EXPECT().AuthorizeURL(gomock.Any(), suite.principal.UserID, suite.teamID, gomock.Any()).Return("", errors.New("signing failed"))

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/files/"), map[string]string{"file_id": "drive-123"})
		testutils.AssertErrorResponse(t, recorder, http.StatusInternalServerError, "Failed to start Google Drive import")
	})
}

func (suite *TeamHandlerTestSuite) TestEdit() {
	suite.teams.EXPECT().
		Update(gomock.Any(), suite.teamID, suite.principal.UserID, &service.TeamRequest{Name: "Core", Description: "Infra"}).
		Return(&service.TeamResponse{ID: suite.teamID, Name: "Core"}, nil)

	var response service.TeamResponse
	recorder := suite.httpSuite.MakeRequest(http.MethodPut, suite.path("/m/edit/"), map[string]string{"name": "Core", "description": "Infra"})
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), "Core", response.Name)
}

func (suite *TeamHandlerTestSuite) TestMembers() {
	suite.T().Run("Users", func(t *testing.T) {
		suite.memberships.EXPECT().ListMembers(gomock.Any(), service.ScopeTeam, suite.teamID).Return([]service.MemberResponse{
			{UserID: suite.principal.UserID, IsOwner: true},
			{UserID: uuid.New()},
		}, nil)

		var response handlers.MembersResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/users/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Len(t, response.Members, 2)
	})

	suite.T().Run("ManageNotice", func(t *testing.T) {
		suite.memberships.EXPECT().ListMembers(gomock.Any(), service.ScopeTeam, suite.teamID).Return([]service.MemberResponse{
			{UserID: suite.principal.UserID, IsOwner: true},
		}, nil)

		var response handlers.MembersResponse
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, suite.path("/m/users/"), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "Your team does not have any members. Invite some!", response.Notice)
	})

	suite.T().Run("InviteExistingMember", func(t *testing.T) {
		suite.memberships.EXPECT().
			InviteByEmail(gomock.Any(), service.ScopeTeam, suite.teamID, gomock.Any()).
			Return(nil, apperrors.ErrAlreadyTeamMember)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, suite.path("/m/users/"), map[string]string{"email": "member@example.com"})
		testutils.AssertFieldError(t, recorder, "email", apperrors.CodeTeamMember)
	})
}

func TestTeamHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TeamHandlerTestSuite))
}
