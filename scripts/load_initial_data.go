package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"teamspace-backend/internal/api/routes"
	"teamspace-backend/internal/auth"
	"teamspace-backend/internal/config"
	"teamspace-backend/internal/database"
	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/repository"
	"teamspace-backend/internal/service"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type UserData struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
}

type OrganizationData struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Address     string   `yaml:"address,omitempty"`
	Country     string   `yaml:"country,omitempty"`
	State       string   `yaml:"state,omitempty"`
	Owner       string   `yaml:"owner"`
	Members     []string `yaml:"members,omitempty"`
}

type TeamData struct {
	Name         string   `yaml:"name"`
	Organization string   `yaml:"organization"`
	Description  string   `yaml:"description"`
	Owner        string   `yaml:"owner"`
	Members      []string `yaml:"members,omitempty"`
}

// File structures
type UsersFile struct {
	Users []UserData `yaml:"users"`
}

type OrganizationsFile struct {
	Organizations []OrganizationData `yaml:"organizations"`
}

type TeamsFile struct {
	Teams []TeamData `yaml:"teams"`
}

type loader struct {
	services *routes.Services
	orgRepo  repository.OrganizationRepositoryInterface
	teamRepo repository.TeamRepositoryInterface
	userIDs  map[string]uuid.UUID
}

func main() {
	log.Println("🚀 Loading initial data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	authConfig := auth.NewAuthConfig(cfg)
	authService, err := auth.NewAuthService(authConfig)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	services, err := routes.NewServices(db, cfg, authService, authConfig)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	l := &loader{
		services: services,
		orgRepo:  repository.NewOrganizationRepository(db),
		teamRepo: repository.NewTeamRepository(db),
		userIDs:  make(map[string]uuid.UUID),
	}
	if err := l.loadDataFromYAMLFiles(context.Background(), "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("✅ Initial data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(cfg *config.Config, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Suppress SQL and "record not found" noise during loading
	opts := &database.Options{
		Driver:   cfg.DatabaseDriver,
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(cfg.DSN(), opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func (l *loader) loadDataFromYAMLFiles(ctx context.Context, dataDir string) error {
	var users UsersFile
	if err := loadYAML(dataDir, "users", &users); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	var orgs OrganizationsFile
	if err := loadYAML(dataDir, "organizations", &orgs); err != nil {
		return fmt.Errorf("failed to load organizations: %w", err)
	}
	var teams TeamsFile
	if err := loadYAML(dataDir, "teams", &teams); err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}

	created := 0
	for _, data := range users.Users {
		ok, err := l.createUser(ctx, data)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", data.Username, err)
		}
		if ok {
			created++
		}
	}
	log.Printf("📋 Users: %d created, %d total", created, len(users.Users))

	created = 0
	for _, data := range orgs.Organizations {
		ok, err := l.createOrganization(ctx, data)
		if err != nil {
			return fmt.Errorf("failed to create organization %s: %w", data.Name, err)
		}
		if ok {
			created++
		}
	}
	log.Printf("📋 Organizations: %d created, %d total", created, len(orgs.Organizations))

	created = 0
	for _, data := range teams.Teams {
		ok, err := l.createTeam(ctx, data)
		if err != nil {
			log.Printf("⚠️  Warning: failed to create team %s: %v", data.Name, err)
			continue
		}
		if ok {
			created++
		}
	}
	log.Printf("📋 Teams: %d created, %d total", created, len(teams.Teams))

	return nil
}

func (l *loader) createUser(ctx context.Context, data UserData) (bool, error) {
	existing, err := l.services.Users.FindByEmail(ctx, data.Email)
	if err == nil {
		l.userIDs[existing.Username] = existing.ID
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, err
	}

	user, err := l.services.Users.Signup(ctx, &service.SignupRequest{
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Username:    data.Username,
		Email:       data.Email,
		PasswordOne: data.Password,
		PasswordTwo: data.Password,
	})
	if err != nil {
		return false, err
	}
	l.userIDs[user.Username] = user.ID
	return true, nil
}

func (l *loader) createOrganization(ctx context.Context, data OrganizationData) (bool, error) {
	ownerID, err := l.user(data.Owner)
	if err != nil {
		return false, err
	}

	var orgID uuid.UUID
	created := false
	existing, err := l.orgRepo.GetByName(ctx, data.Name)
	switch {
	case err == nil:
		orgID = existing.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		org, err := l.services.Organizations.Create(ctx, ownerID, &service.OrganizationRequest{
			Name:        data.Name,
			Description: data.Description,
			Address:     data.Address,
			Country:     data.Country,
			State:       data.State,
		})
		if err != nil {
			return false, err
		}
		orgID, created = org.ID, true
	default:
		return false, fmt.Errorf("failed to query organization: %w", err)
	}

	return created, l.addMembers(ctx, service.ScopeOrganization, orgID, data.Members)
}

func (l *loader) createTeam(ctx context.Context, data TeamData) (bool, error) {
	ownerID, err := l.user(data.Owner)
	if err != nil {
		return false, err
	}
	org, err := l.orgRepo.GetByName(ctx, data.Organization)
	if err != nil {
		return false, fmt.Errorf("organization %s not found for team %s", data.Organization, data.Name)
	}

	var teamID uuid.UUID
	created := false
	existing, err := l.teamRepo.GetByName(ctx, org.ID, data.Name)
	switch {
	case err == nil:
		teamID = existing.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		team, err := l.services.Teams.Create(ctx, ownerID, org.ID, &service.TeamRequest{
			Name:        data.Name,
			Description: data.Description,
		})
		if err != nil {
			return false, err
		}
		teamID, created = team.ID, true
	default:
		return false, fmt.Errorf("failed to query team: %w", err)
	}

	return created, l.addMembers(ctx, service.ScopeTeam, teamID, data.Members)
}

// addMembers skips users that already hold a membership so reruns are harmless
func (l *loader) addMembers(ctx context.Context, scope service.Scope, scopeID uuid.UUID, usernames []string) error {
	for _, username := range usernames {
		userID, err := l.user(username)
		if err != nil {
			return err
		}
		if _, err := l.services.Memberships.AddMember(ctx, scope, scopeID, userID); err != nil && !apperrors.IsAlreadyMember(err) {
			return fmt.Errorf("failed to add %s: %w", username, err)
		}
	}
	return nil
}

func (l *loader) user(username string) (uuid.UUID, error) {
	id, ok := l.userIDs[username]
	if !ok {
		return uuid.Nil, fmt.Errorf("user %s is not defined in users.yaml", username)
	}
	return id, nil
}

// loadYAML merges every .yaml file under dataDir whose path mentions kind into target
func loadYAML(dataDir, kind string, target interface{}) error {
	return filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") || !strings.Contains(filepath.Base(path), kind) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, target)
	})
}
