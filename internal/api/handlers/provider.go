package handlers

import (
	"net/http"

	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ProviderHandler completes third-party OAuth round trips
type ProviderHandler struct {
	drive service.DriveServiceInterface
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(drive service.DriveServiceInterface) *ProviderHandler {
	return &ProviderHandler{drive: drive}
}

// GoogleCallback handles GET /providers/google
// @Summary Google Drive OAuth callback
// @Description Exchanges the authorization code, copies the selected Drive file into the team and redirects to its file list
// @Tags providers
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed import state"
// @Success 302 {string} string "Redirect to /t/{id}/files/"
// @Failure 400 {object} ErrorResponse "Invalid or expired state"
// @Failure 404 {object} ErrorResponse "No code supplied or team not found"
// @Failure 502 {object} ErrorResponse "Google request failed"
// @Security BearerAuth
// @Router /providers/google [get]
func (h *ProviderHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		if reason := c.Query("error"); reason != "" {
			logger.WithContext(c.Request.Context()).WithField("reason", reason).Info("Drive import declined")
		}
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Page not found"})
		return
	}

	file, err := h.drive.Import(c.Request.Context(), caller(c).UserID, code, c.Query("state"))
	if err != nil {
		respondError(c, err, "The file could not be imported from Google Drive.")
		return
	}

	c.Redirect(http.StatusFound, "/t/"+file.TeamID.String()+"/files/")
}
