package handlers

import (
	"errors"
	"net/http"
	"testing"

	"teamspace-backend/internal/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type HealthHandlerTestSuite struct {
	suite.Suite
	mock      sqlmock.Sqlmock
	httpSuite *testutils.HTTPTestSuite
}

func (suite *HealthHandlerTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(suite.T(), err)
	suite.T().Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(suite.T(), err)

	suite.mock = mock
	handler := NewHealthHandler(db)
	suite.httpSuite = testutils.SetupHTTPTest()
	suite.httpSuite.Router.GET("/health", handler.Health)
	suite.httpSuite.Router.GET("/health/ready", handler.Ready)
	suite.httpSuite.Router.GET("/health/live", handler.Live)
}

func (suite *HealthHandlerTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *HealthHandlerTestSuite) TestHealthy() {
	suite.mock.ExpectPing()

	var response HealthResponse
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health", nil)
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), "healthy", response.Status)
	assert.Equal(suite.T(), "healthy", response.Services["database"])
}

func (suite *HealthHandlerTestSuite) TestUnhealthy() {
	suite.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	var response HealthResponse
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health", nil)
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusServiceUnavailable, &response)
	assert.Equal(suite.T(), "unhealthy", response.Status)
	assert.Contains(suite.T(), response.Services["database"], "connection refused")
}

func (suite *HealthHandlerTestSuite) TestReady() {
	suite.mock.ExpectPing()
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health/ready", nil)
	assert.Equal(suite.T(), http.StatusOK, recorder.Code)

	suite.mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	recorder = suite.httpSuite.MakeRequest(http.MethodGet, "/health/ready", nil)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(suite.T(), recorder.Body.String(), `"ready":false`)
}

func (suite *HealthHandlerTestSuite) TestLive() {
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health/live", nil)
	assert.Equal(suite.T(), http.StatusOK, recorder.Code)
	assert.Contains(suite.T(), recorder.Body.String(), `"alive":true`)
}

func TestHealthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HealthHandlerTestSuite))
}
