//go:build !integration

package testutils

import (
	"fmt"
	"testing"

	"teamspace-backend/internal/config"
	"teamspace-backend/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database with the full schema.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := openSQLite()
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func openSQLite() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return database.Initialize(dsn, &database.Options{
		Driver:   database.DriverSQLite,
		LogLevel: logger.Silent,
	})
}

func openSharedDB() (*gorm.DB, *config.Config, error) {
	db, err := openSQLite()
	if err != nil {
		return nil, nil, err
	}
	return db, testConfig(database.DriverSQLite, ""), nil
}

// CleanupSharedContainer is a no-op without a container.
func CleanupSharedContainer() {}
