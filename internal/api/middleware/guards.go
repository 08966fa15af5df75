package middleware

import (
	"errors"
	"net/http"

	"teamspace-backend/internal/auth"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const scopeIDKey = "scope_id"

// NotFoundMessage is the single outcome for missing scopes and denied membership
const NotFoundMessage = "The request could not be found."

// Guard gates routes behind capability chains
type Guard struct {
	access        service.AccessServiceInterface
	homePath      string
	dashboardPath string
}

// NewGuard creates a guard that redirects to homePath or dashboardPath on authentication failures
func NewGuard(access service.AccessServiceInterface, homePath, dashboardPath string) *Guard {
	return &Guard{access: access, homePath: homePath, dashboardPath: dashboardPath}
}

// Require evaluates caps in order against the caller and the :id route parameter.
// An unparseable id is checked as the nil id, which never names a scope.
func (g *Guard) Require(caps ...service.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopeID, _ := uuid.Parse(c.Param("id"))
		principal, _ := auth.GetPrincipal(c)

		err := g.access.Check(c.Request.Context(), principal, scopeID, caps...)
		switch {
		case err == nil:
			c.Set(scopeIDKey, scopeID)
			c.Next()
		case errors.Is(err, apperrors.ErrAuthenticationRequired):
			c.Redirect(http.StatusFound, g.homePath)
			c.Abort()
		case errors.Is(err, apperrors.ErrAlreadyAuthenticated):
			c.Redirect(http.StatusFound, g.dashboardPath)
			c.Abort()
		case apperrors.IsNotFound(err):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": NotFoundMessage})
		default:
			logger.WithContext(c.Request.Context()).WithError(err).Error("Guard check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}

// NoRoute sends anonymous callers home and authenticated callers to their dashboard with a notice
func (g *Guard) NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.GetPrincipal(c); ok {
			c.Redirect(http.StatusFound, g.dashboardPath+"?notice=not_found")
			return
		}
		c.Redirect(http.StatusFound, g.homePath)
	}
}

// ScopeID returns the organization or team id a guard has already admitted
func ScopeID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(scopeIDKey)
	if !exists {
		return uuid.Nil
	}
	id, _ := value.(uuid.UUID)
	return id
}
