package testutils

import (
	"sync"
	"testing"

	"teamspace-backend/internal/config"
	"teamspace-backend/internal/database"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ------------------------------
// Shared, process-wide resources
// ------------------------------
var (
	sharedOnce    sync.Once
	sharedInitErr error
	sharedDB      *gorm.DB
	sharedConfig  *config.Config
)

// ------------------------------
// Base suite types
// ------------------------------
type BaseTestSuite struct {
	suite.Suite
	DB        *gorm.DB
	Config    *config.Config
	TxManager *database.TransactionManager
}

// ------------------------------
// Public helpers
// ------------------------------

// SetupTestSuite initializes (once) the shared test database and returns a per-suite wrapper.
// Plain `go test` uses in-memory SQLite; `-tags integration` uses a Postgres container.
func SetupTestSuite(t *testing.T) *BaseTestSuite {
	sharedOnce.Do(func() { sharedDB, sharedConfig, sharedInitErr = openSharedDB() })
	if sharedInitErr != nil {
		t.Fatalf("failed to initialize shared test database: %v", sharedInitErr)
	}
	tm, err := database.NewTransactionManager(sharedDB)
	if err != nil {
		t.Fatalf("failed to create transaction manager: %v", err)
	}
	return &BaseTestSuite{
		DB:        sharedDB,
		Config:    sharedConfig,
		TxManager: tm,
	}
}

// RunWithTestSuite is a convenience wrapper to run a function with a ready suite.
func RunWithTestSuite(t *testing.T, testFunc func(*BaseTestSuite)) {
	s := SetupTestSuite(t)
	defer s.TeardownTestSuite()
	testFunc(s)
}

// ------------------------------
// Suite lifecycle hooks
// ------------------------------

func (s *BaseTestSuite) SetupTest()    { s.CleanTestDB() }
func (s *BaseTestSuite) TearDownTest() { s.CleanTestDB() }

// TeardownTestSuite is per *suite* (not process). We only clean DB here;
// the database persists across suites for speed.
func (s *BaseTestSuite) TeardownTestSuite() { s.CleanTestDB() }

// CleanTestDB empties every application table, children first.
func (s *BaseTestSuite) CleanTestDB() {
	if s.DB == nil {
		return
	}
	tables := []string{
		"files",
		"events",
		"messages",
		"team_memberships",
		"teams",
		"organization_memberships",
		"organizations",
		"users",
	}
	m := s.DB.Migrator()
	for _, t := range tables {
		if m.HasTable(t) {
			s.DB.Exec(`DELETE FROM "` + t + `"`)
		}
	}
}
