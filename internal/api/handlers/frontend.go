package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageResponse describes a public entry point
type PageResponse struct {
	Title  string            `json:"title" example:"Teamspace"`
	Links  map[string]string `json:"links"`
	Notice string            `json:"notice,omitempty"`
}

// FrontendHandler serves the anonymous-only public pages
type FrontendHandler struct{}

// NewFrontendHandler creates a new frontend handler
func NewFrontendHandler() *FrontendHandler {
	return &FrontendHandler{}
}

// Home handles GET /
// @Summary Public home
// @Description Entry point for anonymous callers. Authenticated callers are redirected to their dashboard.
// @Tags frontend
// @Produce json
// @Success 200 {object} PageResponse
// @Success 302 {string} string "Redirect to the dashboard"
// @Router / [get]
func (h *FrontendHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, PageResponse{
		Title: "Teamspace",
		Links: map[string]string{
			"login":  "/login",
			"signup": "/signup",
			"about":  "/about",
		},
	})
}

// About handles GET /about
// @Summary About page
// @Tags frontend
// @Produce json
// @Success 200 {object} PageResponse
// @Success 302 {string} string "Redirect to the dashboard"
// @Router /about [get]
func (h *FrontendHandler) About(c *gin.Context) {
	c.JSON(http.StatusOK, PageResponse{
		Title: "About",
		Links: map[string]string{
			"home":   "/",
			"signup": "/signup",
		},
	})
}
