package handlers

import (
	"net/http"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MembersResponse lists a scope's members with their join dates
type MembersResponse struct {
	Members []service.MemberResponse    `json:"members"`
	Added   *service.MembershipResponse `json:"added,omitempty"`
	Message string                      `json:"message,omitempty"`
	Notice  string                      `json:"notice,omitempty"`
}

// ManageUsersRequest either invites by email or removes by user id
type ManageUsersRequest struct {
	Email *string `json:"email,omitempty" example:"jdoe@example.com"`
	ID    *string `json:"id,omitempty" example:"2d1f2c8e-6a4b-4c57-9f0e-8d1f3b2a6c11"`
}

// memberList handles the scope's plain members page
func memberList(c *gin.Context, memberships service.MembershipServiceInterface, scope service.Scope) {
	members, err := memberships.ListMembers(c.Request.Context(), scope, scopeID(c))
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, MembersResponse{Members: members})
}

// manageMembers handles the owner's member management page for scope
func manageMembers(c *gin.Context, memberships service.MembershipServiceInterface, scope service.Scope) {
	ctx := c.Request.Context()
	id := scopeID(c)
	response := MembersResponse{}

	if c.Request.Method == http.MethodPost {
		var req ManageUsersRequest
		if !bindJSON(c, &req) {
			return
		}

		switch {
		case req.Email != nil:
			added, err := memberships.InviteByEmail(ctx, scope, id, &service.InviteRequest{Email: *req.Email})
			if err != nil {
				respondError(c, err, "Failed to add member")
				return
			}
			response.Added = added
			response.Message = "User successfully added."
		case req.ID != nil:
			targetID, err := uuid.Parse(*req.ID)
			if err != nil {
				respondError(c, apperrors.ErrMembershipNotFound, "Failed to remove member")
				return
			}
			if err := memberships.RemoveMember(ctx, scope, id, targetID, caller(c).UserID); err != nil {
				respondError(c, err, "Failed to remove member")
				return
			}
			response.Message = "User successfully removed."
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Either email or id is required"})
			return
		}
	}

	members, err := memberships.ListMembers(ctx, scope, id)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	response.Members = members
	if len(members) <= 1 {
		response.Notice = "Your " + string(scope) + " does not have any members. Invite some!"
	}

	c.JSON(http.StatusOK, response)
}
