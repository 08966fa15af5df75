package auth

import (
	"context"
	"net/http"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service       *AuthService
	users         service.UserServiceInterface
	dashboardPath string
	homePath      string
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *AuthService, users service.UserServiceInterface, dashboardPath, homePath string) *AuthHandler {
	return &AuthHandler{
		service:       authService,
		users:         users,
		dashboardPath: dashboardPath,
		homePath:      homePath,
	}
}

// Login handles POST /login
// @Summary Log in
// @Description Authenticate with email and password and start a session
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse "Session started, or {valid: false, errors} when credentials are rejected"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.formError(c, apperrors.NewValidationError("", "Invalid request body"))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), &req)
	if err != nil {
		h.formError(c, err)
		return
	}

	h.startSession(c, user)
}

// Signup handles POST /signup
// @Summary Sign up
// @Description Create an account and start a session
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body service.SignupRequest true "Account details"
// @Success 200 {object} SessionResponse "Account created, or {valid: false, errors} when details are rejected"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.formError(c, apperrors.NewValidationError("", "Invalid request body"))
		return
	}

	user, err := h.users.Signup(c.Request.Context(), &req)
	if err != nil {
		h.formError(c, err)
		return
	}

	h.startSession(c, user)
}

// Logout handles GET|POST /logout
// @Summary Log out
// @Description Clear the session cookie and return to the public home page
// @Tags authentication
// @Success 302 {string} string "Redirect to the public home page"
// @Router /logout [get]
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if principal, ok := GetPrincipal(c); ok {
		logger.WithContext(c.Request.Context()).
			WithField("username", principal.Username).
			Info("User logged out")
	}

	ClearSessionCookie(c, h.service.Config())
	c.Redirect(http.StatusFound, h.homePath)
}

func (h *AuthHandler) startSession(c *gin.Context, user *service.UserResponse) {
	token, expiresAt, err := h.service.GenerateJWT(user)
	if err != nil {
		logError(c.Request.Context(), err, "Failed to issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	SetSessionCookie(c, h.service.Config(), token)
	logger.WithContext(c.Request.Context()).
		WithField("username", user.Username).
		Info("User logged in")

	c.JSON(http.StatusOK, SessionResponse{
		Valid:     true,
		Token:     token,
		ExpiresAt: &expiresAt,
		User:      user,
		Redirect:  h.dashboardPath,
	})
}

// formError answers with {valid: false, errors} for anything the form can display
func (h *AuthHandler) formError(c *gin.Context, err error) {
	if fieldErrs, ok := apperrors.AsValidationErrors(err); ok {
		c.JSON(http.StatusOK, FormErrorResponse{Valid: false, Errors: fieldErrs})
		return
	}

	logError(c.Request.Context(), err, "Authentication request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func logError(ctx context.Context, err error, msg string) {
	logger.WithContext(ctx).WithError(err).Error(msg)
}
