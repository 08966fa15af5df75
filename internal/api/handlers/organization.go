package handlers

import (
	"net/http"

	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TeamListResponse lists an organization's teams
type TeamListResponse struct {
	Teams  []service.TeamResponse `json:"teams"`
	Notice string                 `json:"notice,omitempty"`
}

// OrganizationHandler handles HTTP requests for organizations
type OrganizationHandler struct {
	orgs        service.OrganizationServiceInterface
	teams       service.TeamServiceInterface
	memberships service.MembershipServiceInterface
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgs service.OrganizationServiceInterface, teams service.TeamServiceInterface, memberships service.MembershipServiceInterface) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, teams: teams, memberships: memberships}
}

// Home handles GET /o/:id/
// @Summary Get organization
// @Description Organization details with the description rendered from markdown
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} service.OrganizationResponse
// @Failure 404 {object} ErrorResponse "Organization not found or caller is not a member"
// @Security BearerAuth
// @Router /o/{id}/ [get]
func (h *OrganizationHandler) Home(c *gin.Context) {
	org, err := h.orgs.GetByID(c.Request.Context(), scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to get organization")
		return
	}

	c.JSON(http.StatusOK, org)
}

// Users handles GET /o/:id/users/
// @Summary List organization members
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} MembersResponse
// @Failure 404 {object} ErrorResponse "Organization not found or caller is not a member"
// @Security BearerAuth
// @Router /o/{id}/users/ [get]
func (h *OrganizationHandler) Users(c *gin.Context) {
	memberList(c, h.memberships, service.ScopeOrganization)
}

// Leave handles POST /o/:id/leave/
// @Summary Leave organization
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} NoticeResponse
// @Failure 404 {object} ErrorResponse "Caller has no membership"
// @Failure 409 {object} ErrorResponse "The owner cannot leave"
// @Security BearerAuth
// @Router /o/{id}/leave/ [post]
func (h *OrganizationHandler) Leave(c *gin.Context) {
	if err := h.memberships.Leave(c.Request.Context(), service.ScopeOrganization, scopeID(c), caller(c).UserID); err != nil {
		respondError(c, err, "Failed to leave organization")
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{Message: "You have left the organization.", Redirect: "/d/o/view/"})
}

// Delete handles POST /o/:id/delete/
// @Summary Delete organization
// @Description Deletes the organization with its teams, their content and every membership
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} NoticeResponse
// @Failure 404 {object} ErrorResponse "Organization not found or caller is not the owner"
// @Security BearerAuth
// @Router /o/{id}/delete/ [post]
func (h *OrganizationHandler) Delete(c *gin.Context) {
	if err := h.orgs.Delete(c.Request.Context(), scopeID(c), caller(c).UserID); err != nil {
		respondError(c, err, "Failed to delete organization")
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{Message: "The organization has been deleted.", Redirect: "/d/o/view/"})
}

// ListTeams handles GET /o/:id/t/view/
// @Summary List organization teams
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} TeamListResponse
// @Failure 404 {object} ErrorResponse "Organization not found or caller is not a member"
// @Security BearerAuth
// @Router /o/{id}/t/view/ [get]
func (h *OrganizationHandler) ListTeams(c *gin.Context) {
	teams, err := h.orgs.ListTeams(c.Request.Context(), scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to list teams")
		return
	}

	response := TeamListResponse{Teams: teams}
	if len(teams) == 0 {
		response.Teams = []service.TeamResponse{}
		response.Notice = "Your organization does not have any teams. Go create one!"
	}
	c.JSON(http.StatusOK, response)
}

// CreateTeam handles POST /o/:id/t/create/
// @Summary Create a team
// @Description Any organization member may create a team and becomes its owner
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param request body service.TeamRequest true "Team fields"
// @Success 201 {object} service.TeamResponse
// @Failure 422 {object} ValidationErrorResponse "Field errors (required, unique)"
// @Security BearerAuth
// @Router /o/{id}/t/create/ [post]
func (h *OrganizationHandler) CreateTeam(c *gin.Context) {
	var req service.TeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teams.Create(c.Request.Context(), caller(c).UserID, scopeID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create team")
		return
	}

	c.Header("Location", "/t/"+team.ID.String()+"/")
	c.JSON(http.StatusCreated, team)
}

// Edit handles PUT /o/:id/m/edit/
// @Summary Edit organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param request body service.OrganizationRequest true "Organization fields"
// @Success 200 {object} service.OrganizationResponse
// @Failure 404 {object} ErrorResponse "Organization not found or caller is not the owner"
// @Failure 422 {object} ValidationErrorResponse "Field errors (required, unique)"
// @Security BearerAuth
// @Router /o/{id}/m/edit/ [put]
func (h *OrganizationHandler) Edit(c *gin.Context) {
	var req service.OrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.orgs.Update(c.Request.Context(), scopeID(c), caller(c).UserID, &req)
	if err != nil {
		respondError(c, err, "Failed to update organization")
		return
	}

	logger.WithContext(c.Request.Context()).WithField("organization_id", org.ID).Debug("Organization settings saved")
	c.JSON(http.StatusOK, org)
}

// ManageUsers handles GET|POST /o/:id/m/users/
// @Summary Manage organization members
// @Description GET lists members. POST with {email} invites a user, POST with {id} removes one.
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param request body ManageUsersRequest false "Invite or removal"
// @Success 200 {object} MembersResponse
// @Failure 404 {object} ErrorResponse "Organization or membership not found"
// @Failure 409 {object} ErrorResponse "The owner cannot be removed"
// @Failure 422 {object} ValidationErrorResponse "Field errors (not_found, org_member)"
// @Security BearerAuth
// @Router /o/{id}/m/users/ [get]
// @Router /o/{id}/m/users/ [post]
func (h *OrganizationHandler) ManageUsers(c *gin.Context) {
	manageMembers(c, h.memberships, service.ScopeOrganization)
}
