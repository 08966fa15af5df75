package handlers

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageListResponse lists a team's chat newest first
type MessageListResponse struct {
	Messages []service.MessageResponse `json:"messages"`
	Notice   string                    `json:"notice,omitempty"`
}

// EventListResponse lists a team's events by start date, latest first
type EventListResponse struct {
	Events []service.EventResponse `json:"events"`
	Notice string                  `json:"notice,omitempty"`
}

// FileListResponse lists a team's files newest first
type FileListResponse struct {
	Files  []service.FileResponse `json:"files"`
	Notice string                 `json:"notice,omitempty"`
}

// DriveAuthorizeResponse points the caller at Google's consent page
type DriveAuthorizeResponse struct {
	AuthorizeURL string `json:"authorize_url" example:"https://accounts.google.com/o/oauth2/auth?..."`
}

// TeamHandler handles HTTP requests for teams and their content
type TeamHandler struct {
	teams       service.TeamServiceInterface
	memberships service.MembershipServiceInterface
	content     service.ContentServiceInterface
	drive       service.DriveServiceInterface
	maxUpload   int64
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teams service.TeamServiceInterface, memberships service.MembershipServiceInterface, content service.ContentServiceInterface, drive service.DriveServiceInterface) *TeamHandler {
	return &TeamHandler{
		teams:       teams,
		memberships: memberships,
		content:     content,
		drive:       drive,
		maxUpload:   32 << 20,
	}
}

// Home handles GET /t/:id/
// @Summary Get team
// @Description Team details with its parent organization and the description rendered from markdown
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} service.TeamResponse
// @Failure 404 {object} ErrorResponse "Team not found or caller is not a member"
// @Security BearerAuth
// @Router /t/{id}/ [get]
func (h *TeamHandler) Home(c *gin.Context) {
	team, err := h.teams.GetByID(c.Request.Context(), scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to get team")
		return
	}

	c.JSON(http.StatusOK, team)
}

// Leave handles POST /t/:id/leave/
// @Summary Leave team
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} NoticeResponse
// @Failure 404 {object} ErrorResponse "Caller has no membership"
// @Failure 409 {object} ErrorResponse "The owner cannot leave"
// @Security BearerAuth
// @Router /t/{id}/leave/ [post]
func (h *TeamHandler) Leave(c *gin.Context) {
	ctx := c.Request.Context()
	team, err := h.teams.GetByID(ctx, scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to leave team")
		return
	}

	if err := h.memberships.Leave(ctx, service.ScopeTeam, team.ID, caller(c).UserID); err != nil {
		respondError(c, err, "Failed to leave team")
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{Message: "You have left the team.", Redirect: teamsPath(team.ParentID)})
}

// Delete handles POST /t/:id/delete/
// @Summary Delete team
// @Description Deletes the team with its messages, events, files and memberships
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} NoticeResponse
// @Failure 404 {object} ErrorResponse "Team not found or caller is not the owner"
// @Security BearerAuth
// @Router /t/{id}/delete/ [post]
func (h *TeamHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	team, err := h.teams.GetByID(ctx, scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to delete team")
		return
	}

	if err := h.teams.Delete(ctx, team.ID, caller(c).UserID); err != nil {
		respondError(c, err, "Failed to delete team")
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{Message: "The team has been deleted.", Redirect: teamsPath(team.ParentID)})
}

// Chat handles GET|POST /t/:id/chat/
// @Summary Team chat
// @Description GET lists messages newest first. POST posts a message.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param request body service.MessageRequest false "Message to post"
// @Success 200 {object} MessageListResponse
// @Success 201 {object} service.MessageResponse
// @Failure 422 {object} ValidationErrorResponse "Field errors (required)"
// @Security BearerAuth
// @Router /t/{id}/chat/ [get]
// @Router /t/{id}/chat/ [post]
func (h *TeamHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()
	teamID := scopeID(c)

	if c.Request.Method == http.MethodPost {
		var req service.MessageRequest
		if !bindJSON(c, &req) {
			return
		}
		message, err := h.content.CreateMessage(ctx, caller(c).UserID, teamID, &req)
		if err != nil {
			respondError(c, err, "Your message could not be posted.")
			return
		}
		c.JSON(http.StatusCreated, message)
		return
	}

	messages, err := h.content.ListMessages(ctx, teamID)
	if err != nil {
		respondError(c, err, "Failed to list messages")
		return
	}

	response := MessageListResponse{Messages: messages}
	if len(messages) == 0 {
		response.Messages = []service.MessageResponse{}
		response.Notice = "There are no messages to display."
	}
	c.JSON(http.StatusOK, response)
}

// Events handles GET|POST /t/:id/events/
// @Summary Team events
// @Description GET lists events by start date, latest first. POST creates an event.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param request body service.EventRequest false "Event to create"
// @Success 200 {object} EventListResponse
// @Success 201 {object} service.EventResponse
// @Failure 422 {object} ValidationErrorResponse "Field errors (required, invalid)"
// @Security BearerAuth
// @Router /t/{id}/events/ [get]
// @Router /t/{id}/events/ [post]
func (h *TeamHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	teamID := scopeID(c)

	if c.Request.Method == http.MethodPost {
		var req service.EventRequest
		if !bindJSON(c, &req) {
			return
		}
		event, err := h.content.CreateEvent(ctx, caller(c).UserID, teamID, &req)
		if err != nil {
			respondError(c, err, "Failed to create event")
			return
		}
		c.JSON(http.StatusCreated, event)
		return
	}

	events, err := h.content.ListEvents(ctx, teamID)
	if err != nil {
		respondError(c, err, "Failed to list events")
		return
	}

	response := EventListResponse{Events: events}
	if len(events) == 0 {
		response.Events = []service.EventResponse{}
		response.Notice = "There are no events to display."
	}
	c.JSON(http.StatusOK, response)
}

// Files handles GET|POST /t/:id/files/
// @Summary Team files
// @Description GET lists files, or downloads one when file_id is given.
// @Description POST with multipart field "file" uploads directly; POST with JSON {file_id} starts a Google Drive import.
// @Tags teams
// @Accept json,mpfd
// @Produce json,octet-stream
// @Param id path string true "Team ID (UUID)"
// @Param file_id query string false "File ID to download"
// @Param file formData file false "File to upload"
// @Param request body service.DriveImportRequest false "Drive file to import"
// @Success 200 {object} FileListResponse
// @Success 201 {object} service.FileResponse
// @Failure 404 {object} ErrorResponse "File not found in this team"
// @Failure 503 {object} ErrorResponse "Google Drive import is not configured"
// @Security BearerAuth
// @Router /t/{id}/files/ [get]
// @Router /t/{id}/files/ [post]
func (h *TeamHandler) Files(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			h.upload(c)
			return
		}
		h.startDriveImport(c)
		return
	}

	if fileID := c.Query("file_id"); fileID != "" {
		h.download(c, fileID)
		return
	}

	files, err := h.content.ListFiles(c.Request.Context(), scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to list files")
		return
	}

	response := FileListResponse{Files: files}
	if len(files) == 0 {
		response.Files = []service.FileResponse{}
		response.Notice = "There are no files to display. Share some!"
	}
	c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) download(c *gin.Context, rawID string) {
	fileID, err := uuid.Parse(rawID)
	if err != nil {
		respondError(c, apperrors.ErrFileNotFound, "Invalid file ID.")
		return
	}

	file, body, err := h.content.OpenFile(c.Request.Context(), scopeID(c), fileID)
	if err != nil {
		respondError(c, err, "This file could not be found.")
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	})
}

func (h *TeamHandler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A file is required"})
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, err, "Failed to read upload")
		return
	}
	defer f.Close()

	file, err := h.content.UploadFile(c.Request.Context(), caller(c).UserID, scopeID(c), header.Filename, f)
	if err != nil {
		respondError(c, err, "Failed to store file")
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *TeamHandler) startDriveImport(c *gin.Context) {
	var req service.DriveImportRequest
	if !bindJSON(c, &req) {
		return
	}

	url, err := h.drive.AuthorizeURL(c.Request.Context(), caller(c).UserID, scopeID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to start Google Drive import")
		return
	}
	c.JSON(http.StatusOK, DriveAuthorizeResponse{AuthorizeURL: url})
}

// Users handles GET /t/:id/users/
// @Summary List team members
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} MembersResponse
// @Failure 404 {object} ErrorResponse "Team not found or caller is not a member"
// @Security BearerAuth
// @Router /t/{id}/users/ [get]
func (h *TeamHandler) Users(c *gin.Context) {
	memberList(c, h.memberships, service.ScopeTeam)
}

// Edit handles PUT /t/:id/m/edit/
// @Summary Edit team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param request body service.TeamRequest true "Team fields"
// @Success 200 {object} service.TeamResponse
// @Failure 404 {object} ErrorResponse "Team not found or caller is not the owner"
// @Failure 422 {object} ValidationErrorResponse "Field errors (required, unique)"
// @Security BearerAuth
// @Router /t/{id}/m/edit/ [put]
func (h *TeamHandler) Edit(c *gin.Context) {
	var req service.TeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teams.Update(c.Request.Context(), scopeID(c), caller(c).UserID, &req)
	if err != nil {
		respondError(c, err, "Failed to update team")
		return
	}

	c.JSON(http.StatusOK, team)
}

// ManageUsers handles GET|POST /t/:id/m/users/
// @Summary Manage team members
// @Description GET lists members. POST with {email} invites a user, POST with {id} removes one.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param request body ManageUsersRequest false "Invite or removal"
// @Success 200 {object} MembersResponse
// @Failure 404 {object} ErrorResponse "Team or membership not found"
// @Failure 409 {object} ErrorResponse "The owner cannot be removed"
// @Failure 422 {object} ValidationErrorResponse "Field errors (not_found, team_member)"
// @Security BearerAuth
// @Router /t/{id}/m/users/ [get]
// @Router /t/{id}/m/users/ [post]
func (h *TeamHandler) ManageUsers(c *gin.Context) {
	manageMembers(c, h.memberships, service.ScopeTeam)
}

func teamsPath(orgID uuid.UUID) string {
	return "/o/" + orgID.String() + "/t/view/"
}
