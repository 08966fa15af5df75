package middleware

import (
	"net/http"

	"teamspace-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// CORS applies the configured cross-origin policy.
// Preflight requests are answered by the policy and never reach a route.
func CORS(cfg *config.Config) gin.HandlerFunc {
	options := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			RequestIDHeader,
		},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}

	// Wildcard origins cannot be combined with credentials
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			options.AllowCredentials = false
			break
		}
	}

	policy := cors.Handler(options)

	return func(c *gin.Context) {
		passed := false
		policy(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
