package handlers

import (
	"net/http"

	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
)

var notices = map[string]string{
	"not_found": "The request could not be found.",
}

// DashboardResponse is the signed-in landing page
type DashboardResponse struct {
	Title  string                `json:"title" example:"Dashboard: Home"`
	User   *service.UserResponse `json:"user"`
	Notice string                `json:"notice,omitempty"`
}

// OrganizationListResponse lists the caller's organizations with their active teams
type OrganizationListResponse struct {
	Organizations []service.MemberOrganizationResponse `json:"organizations"`
	Notice        string                               `json:"notice,omitempty"`
}

// DashboardHandler handles the caller's own account and organizations
type DashboardHandler struct {
	users service.UserServiceInterface
	orgs  service.OrganizationServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(users service.UserServiceInterface, orgs service.OrganizationServiceInterface) *DashboardHandler {
	return &DashboardHandler{users: users, orgs: orgs}
}

// Home handles GET /d/
// @Summary Dashboard home
// @Description Starting point for a signed-in user
// @Tags dashboard
// @Produce json
// @Param notice query string false "Notice key set by a redirect (not_found)"
// @Success 200 {object} DashboardResponse
// @Failure 302 {string} string "Redirect to the public home page when signed out"
// @Security BearerAuth
// @Router /d/ [get]
func (h *DashboardHandler) Home(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), caller(c).UserID)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Title:  "Dashboard: Home",
		User:   user,
		Notice: notices[c.Query("notice")],
	})
}

// Profile handles GET /d/u/
// @Summary Get own account
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.UserResponse
// @Security BearerAuth
// @Router /d/u/ [get]
func (h *DashboardHandler) Profile(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), caller(c).UserID)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, user)
}

// EditProfile handles PUT /d/u/edit/
// @Summary Edit own account
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body service.UpdateProfileRequest true "Account fields"
// @Success 200 {object} service.UserResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 422 {object} ValidationErrorResponse "Field errors (required, unique)"
// @Security BearerAuth
// @Router /d/u/edit/ [put]
func (h *DashboardHandler) EditProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), caller(c).UserID, &req)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /d/u/password/
// @Summary Change own password
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body service.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} NoticeResponse
// @Failure 422 {object} ValidationErrorResponse "Field errors (invalid, password_mismatch)"
// @Security BearerAuth
// @Router /d/u/password/ [put]
func (h *DashboardHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), caller(c).UserID, &req); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{Message: "Password successfully changed."})
}

// ListOrganizations handles GET /d/o/view/
// @Summary List own organizations
// @Description Organizations the caller belongs to, each with the teams the caller is a member of
// @Tags dashboard
// @Produce json
// @Success 200 {object} OrganizationListResponse
// @Security BearerAuth
// @Router /d/o/view/ [get]
func (h *DashboardHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgs.ListForMember(c.Request.Context(), caller(c).UserID)
	if err != nil {
		respondError(c, err, "Failed to list organizations")
		return
	}

	response := OrganizationListResponse{Organizations: orgs}
	if len(orgs) == 0 {
		response.Organizations = []service.MemberOrganizationResponse{}
		response.Notice = "You're not a member of any organization yet. Go create one!"
	}
	c.JSON(http.StatusOK, response)
}

// CreateOrganization handles POST /d/o/create/
// @Summary Create an organization
// @Description The caller becomes the owner and first member
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body service.OrganizationRequest true "Organization fields"
// @Success 201 {object} service.OrganizationResponse
// @Failure 422 {object} ValidationErrorResponse "Field errors (required, unique)"
// @Security BearerAuth
// @Router /d/o/create/ [post]
func (h *DashboardHandler) CreateOrganization(c *gin.Context) {
	var req service.OrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.orgs.Create(c.Request.Context(), caller(c).UserID, &req)
	if err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}

	c.Header("Location", "/o/"+org.ID.String()+"/")
	c.JSON(http.StatusCreated, org)
}
