package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamspace-backend/internal/auth"
	"teamspace-backend/internal/config"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/mocks"
	"teamspace-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GuardTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	access    *mocks.MockAccessServiceInterface
	router    *gin.Engine
	principal *service.Principal
}

func (s *GuardTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctrl = gomock.NewController(s.T())
	s.access = mocks.NewMockAccessServiceInterface(s.ctrl)
	s.principal = nil

	guard := NewGuard(s.access, "/", "/d/")
	s.router = gin.New()
	s.router.Use(func(c *gin.Context) {
		if s.principal != nil {
			auth.SetPrincipal(c, s.principal)
		}
		c.Next()
	})

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"scope_id": ScopeID(c).String()})
	}
	s.router.GET("/", guard.Require(service.Unauthenticated), ok)
	s.router.GET("/o/:id/", guard.Require(service.Authenticated, service.OrganizationMember), ok)
	s.router.POST("/t/:id/delete/", guard.Require(service.Authenticated, service.TeamOwner), ok)
	s.router.NoRoute(guard.NoRoute())
}

func (s *GuardTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GuardTestSuite) serve(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func (s *GuardTestSuite) TestMemberAdmitted() {
	s.principal = &service.Principal{UserID: uuid.New(), Username: "owner"}
	orgID := uuid.New()
	s.access.EXPECT().
		Check(gomock.Any(), s.principal, orgID, service.Authenticated, service.OrganizationMember).
		Return(nil)

	w := s.serve(http.MethodGet, "/o/"+orgID.String()+"/")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), orgID.String())
}

func (s *GuardTestSuite) TestAnonymousRedirectedHome() {
	orgID := uuid.New()
	s.access.EXPECT().
		Check(gomock.Any(), (*service.Principal)(nil), orgID, gomock.Any(), gomock.Any()).
		Return(apperrors.ErrAuthenticationRequired)

	w := s.serve(http.MethodGet, "/o/"+orgID.String()+"/")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/", w.Header().Get("Location"))
}

func (s *GuardTestSuite) TestAuthenticatedRedirectedFromAnonymousPage() {
	s.principal = &service.Principal{UserID: uuid.New()}
	s.access.EXPECT().
		Check(gomock.Any(), s.principal, uuid.Nil, service.Unauthenticated).
		Return(apperrors.ErrAlreadyAuthenticated)

	w := s.serve(http.MethodGet, "/")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/d/", w.Header().Get("Location"))
}

func (s *GuardTestSuite) TestNonMemberSeesNotFound() {
	s.principal = &service.Principal{UserID: uuid.New()}
	s.access.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(apperrors.ErrScopeNotFound)

	w := s.serve(http.MethodPost, "/t/"+uuid.NewString()+"/delete/")
	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), NotFoundMessage)
}

func (s *GuardTestSuite) TestMalformedIDCheckedAsNil() {
	s.principal = &service.Principal{UserID: uuid.New()}
	s.access.EXPECT().
		Check(gomock.Any(), s.principal, uuid.Nil, gomock.Any(), gomock.Any()).
		Return(apperrors.ErrScopeNotFound)

	w := s.serve(http.MethodGet, "/o/not-a-uuid/")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *GuardTestSuite) TestStoreFailure() {
	s.principal = &service.Principal{UserID: uuid.New()}
	s.access.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	w := s.serve(http.MethodGet, "/o/"+uuid.NewString()+"/")
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *GuardTestSuite) TestNoRoute() {
	w := s.serve(http.MethodGet, "/missing")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/", w.Header().Get("Location"))

	s.principal = &service.Principal{UserID: uuid.New()}
	w = s.serve(http.MethodGet, "/missing")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/d/?notice=not_found", w.Header().Get("Location"))
}

func TestGuardTestSuite(t *testing.T) {
	suite.Run(t, new(GuardTestSuite))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestRecoveryAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(&config.Config{AllowedOrigins: []string{"http://localhost:3000"}}))
	reached := false
	router.Any("/d/", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	t.Run("preflight answered by the policy", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodOptions, "/d/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.False(t, reached)
	})

	t.Run("simple request passes through", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/d/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.True(t, reached)
	})

	t.Run("unknown origin gets no grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/d/", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
