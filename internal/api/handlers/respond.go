package handlers

import (
	"errors"
	"net/http"

	"teamspace-backend/internal/api/middleware"
	"teamspace-backend/internal/auth"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
}

// ValidationErrorResponse carries field-scoped form errors
type ValidationErrorResponse struct {
	Errors apperrors.ValidationErrors `json:"errors"`
}

// NoticeResponse reports a completed action and where the client should go next
type NoticeResponse struct {
	Message  string `json:"message" example:"You have left the organization."`
	Redirect string `json:"redirect,omitempty" example:"/d/o/view/"`
}

// respondError maps service errors onto status codes. Anything unexpected is logged and hidden.
func respondError(c *gin.Context, err error, message string) {
	if fieldErrs, ok := apperrors.AsValidationErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: fieldErrs})
		return
	}

	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: middleware.NotFoundMessage})
	case errors.Is(err, apperrors.ErrOwnerMembership):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrProviderNotConfigured):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrProviderRequestFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: message})
	default:
		logger.WithContext(c.Request.Context()).WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
	}
}

// bindJSON decodes the request body, answering 400 itself on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

// caller returns the principal the session middleware established.
// Routes using it are always guarded by the Authenticated capability.
func caller(c *gin.Context) *service.Principal {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return &service.Principal{}
	}
	return principal
}

// scopeID returns the guarded :id, parsing it directly when no guard stored it
func scopeID(c *gin.Context) uuid.UUID {
	if id := middleware.ScopeID(c); id != uuid.Nil {
		return id
	}
	id, _ := uuid.Parse(c.Param("id"))
	return id
}
