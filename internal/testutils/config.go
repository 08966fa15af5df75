package testutils

import (
	"teamspace-backend/internal/config"
)

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		Environment:       "test",
		Port:              "8000",
		LogLevel:          "debug",
		DatabaseDriver:    driver,
		DatabaseURL:       dsn,
		JWTSecret:         "test-secret",
		SessionTTLHours:   1,
		SessionCookieName: "session",
		PublicHomePath:    "/",
		DashboardPath:     "/d/",
		UploadDir:         ".team_uploads",
	}
}

// TestConfig returns a configuration suitable for wiring handlers in tests.
func TestConfig() *config.Config {
	return testConfig("sqlite", "")
}
