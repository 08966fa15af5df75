package auth

import (
	"net/http"
	"strings"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	claimsKey    = "auth_claims"
)

// AuthMiddleware resolves the caller's session on every request
type AuthMiddleware struct {
	service *AuthService
	users   service.UserServiceInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *AuthService, users service.UserServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{service: authService, users: users}
}

// Session validates the session token if present but doesn't require it.
// A valid token for an active user sets the principal. Invalid tokens and missing or
// inactive users leave the request anonymous; a store failure aborts with 500.
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, fromCookie := m.token(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := m.service.ValidateJWT(tokenString)
		if err != nil {
			if fromCookie {
				ClearSessionCookie(c, m.service.Config())
			}
			c.Next()
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil && !apperrors.IsNotFound(err) {
			// keep the cookie; the session may still be valid once the store is back
			logger.WithContext(c.Request.Context()).
				WithField("user_id", claims.UserID).
				WithError(err).
				Error("Failed to resolve session user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			return
		}
		if err != nil || !user.IsActive {
			logger.WithContext(c.Request.Context()).
				WithField("user_id", claims.UserID).
				Debug("Session rejected for missing or inactive user")
			if fromCookie {
				ClearSessionCookie(c, m.service.Config())
			}
			c.Next()
			return
		}

		c.Set(claimsKey, claims)
		SetPrincipal(c, &service.Principal{UserID: user.ID, Username: user.Username})

		c.Next()
	}
}

// token reads the session cookie, falling back to a Bearer header
func (m *AuthMiddleware) token(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(m.service.Config().CookieName); err == nil && cookie != "" {
		return cookie, true
	}

	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", false
	}
	return tokenString, false
}

// SetPrincipal stores the authenticated caller on the gin and request contexts
func SetPrincipal(c *gin.Context, principal *service.Principal) {
	c.Set(principalKey, principal)
	c.Request = c.Request.WithContext(logger.ContextWithUser(c.Request.Context(), principal.UserID.String()))
}

// GetPrincipal is a helper function to extract the authenticated caller from context
func GetPrincipal(c *gin.Context) (*service.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}

	principal, ok := value.(*service.Principal)
	return principal, ok && principal != nil
}

// GetAuthClaims is a helper function to extract the session claims from context
func GetAuthClaims(c *gin.Context) (*AuthClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*AuthClaims)
	return claims, ok
}

// SetSessionCookie writes the session token as an HttpOnly cookie
func SetSessionCookie(c *gin.Context, config *AuthConfig, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.CookieName, token, int(config.SessionTTL.Seconds()), "/", "", config.SecureCookie, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, config *AuthConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.CookieName, "", -1, "/", "", config.SecureCookie, true)
}
