package database

import (
	"fmt"
	"time"

	"teamspace-backend/internal/database/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver          string
	LogLevel        logger.LogLevel
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	SkipMigrate     bool
}

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Organization{},
		&models.OrganizationMembership{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Message{},
		&models.Event{},
		&models.File{},
	}
}

// Initialize opens a database connection and creates the schema from GORM models.
// SQLite runs on a single connection so in-memory databases survive between calls.
func Initialize(dsn string, opts *Options) (*gorm.DB, error) {
	// Defaults
	if opts == nil {
		opts = &Options{}
	}
	if opts.Driver == "" {
		opts.Driver = DriverPostgres
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Error
	}
	if opts.Driver == DriverSQLite {
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
		opts.ConnMaxLifetime = 0
		opts.ConnMaxIdleTime = 0
	} else {
		if opts.MaxOpenConns == 0 {
			opts.MaxOpenConns = 20
		}
		if opts.MaxIdleConns == 0 {
			opts.MaxIdleConns = 10
		}
		if opts.ConnMaxLifetime == 0 {
			opts.ConnMaxLifetime = 30 * time.Minute
		}
		if opts.ConnMaxIdleTime == 0 {
			opts.ConnMaxIdleTime = 10 * time.Minute
		}
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey on both drivers
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if !opts.SkipMigrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return db, nil
}
