package routes

import (
	"fmt"

	"teamspace-backend/internal/api/handlers"
	"teamspace-backend/internal/api/middleware"
	"teamspace-backend/internal/auth"
	"teamspace-backend/internal/config"
	"teamspace-backend/internal/database"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/markdown"
	"teamspace-backend/internal/repository"
	"teamspace-backend/internal/service"
	"teamspace-backend/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services bundles the service layer so the seed loader can share the wiring
type Services struct {
	Users         *service.UserService
	Organizations *service.OrganizationService
	Teams         *service.TeamService
	Memberships   *service.MembershipService
	Access        *service.AccessService
	Content       *service.ContentService
	Drive         *service.DriveService
}

// NewServices builds repositories and services on top of db
func NewServices(db *gorm.DB, cfg *config.Config, signer service.StateSigner, authConfig *auth.AuthConfig) (*Services, error) {
	validator := service.NewValidator()

	txManager, err := database.NewTransactionManager(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction manager: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	content := service.ContentRepositories{
		Messages: repository.NewMessageRepository(db),
		Events:   repository.NewEventRepository(db),
		Files:    repository.NewFileRepository(db),
	}

	store := storage.NewOS(cfg.UploadDir)
	renderer := markdown.New()

	// Initialize services
	s := &Services{}
	s.Users = service.NewUserService(userRepo, validator)
	s.Organizations = service.NewOrganizationService(organizationRepo, teamRepo, membershipRepo, content, txManager, store, renderer, validator)
	s.Teams = service.NewTeamService(organizationRepo, teamRepo, membershipRepo, content, txManager, store, renderer, validator)
	s.Memberships = service.NewMembershipService(userRepo, organizationRepo, teamRepo, membershipRepo, txManager, validator)
	s.Access = service.NewAccessService(s.Memberships)
	s.Content = service.NewContentService(userRepo, content, store, validator)

	oauthConfig := auth.NewGoogleOAuthConfig(authConfig)
	if oauthConfig == nil {
		logger.New().Info("Google Drive import disabled: no client credentials configured")
	}
	s.Drive = service.NewDriveService(oauthConfig, signer, s.Memberships, s.Content, validator)

	return s, nil
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Create router
	router := gin.New()

	// Initialize auth configuration and services
	authConfig := auth.NewAuthConfig(cfg)
	if err := authConfig.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}
	authService, err := auth.NewAuthService(authConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	services, err := NewServices(db, cfg, authService, authConfig)
	if err != nil {
		return nil, err
	}

	authMiddleware := auth.NewAuthMiddleware(authService, services.Users)
	guard := middleware.NewGuard(services.Access, cfg.PublicHomePath, cfg.DashboardPath)

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(authMiddleware.Session())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := auth.NewAuthHandler(authService, services.Users, cfg.DashboardPath, cfg.PublicHomePath)
	frontendHandler := handlers.NewFrontendHandler()
	dashboardHandler := handlers.NewDashboardHandler(services.Users, services.Organizations)
	organizationHandler := handlers.NewOrganizationHandler(services.Organizations, services.Teams, services.Memberships)
	teamHandler := handlers.NewTeamHandler(services.Teams, services.Memberships, services.Content, services.Drive)
	providerHandler := handlers.NewProviderHandler(services.Drive)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public pages
	anonymous := guard.Require(service.Unauthenticated)
	router.GET("/", anonymous, frontendHandler.Home)
	router.GET("/about", anonymous, frontendHandler.About)

	// Session routes
	router.POST("/login", authHandler.Login)
	router.POST("/signup", authHandler.Signup)
	router.GET("/logout", authHandler.Logout)
	router.POST("/logout", authHandler.Logout)

	authenticated := guard.Require(service.Authenticated)

	dashboard := router.Group("/d", authenticated)
	{
		dashboard.GET("/", dashboardHandler.Home)
		dashboard.GET("/u/", dashboardHandler.Profile)
		dashboard.PUT("/u/edit/", dashboardHandler.EditProfile)
		dashboard.PUT("/u/password/", dashboardHandler.ChangePassword)
		dashboard.GET("/o/view/", dashboardHandler.ListOrganizations)
		dashboard.POST("/o/create/", dashboardHandler.CreateOrganization)
	}

	orgMember := guard.Require(service.Authenticated, service.OrganizationMember)
	orgOwner := guard.Require(service.Authenticated, service.OrganizationOwner)
	organizations := router.Group("/o/:id")
	{
		organizations.GET("/", orgMember, organizationHandler.Home)
		organizations.GET("/users/", orgMember, organizationHandler.Users)
		organizations.POST("/leave/", orgMember, organizationHandler.Leave)
		organizations.POST("/delete/", orgOwner, organizationHandler.Delete)
		organizations.GET("/t/view/", orgMember, organizationHandler.ListTeams)
		organizations.POST("/t/create/", orgMember, organizationHandler.CreateTeam)
		organizations.PUT("/m/edit/", orgOwner, organizationHandler.Edit)
		organizations.GET("/m/users/", orgOwner, organizationHandler.ManageUsers)
		organizations.POST("/m/users/", orgOwner, organizationHandler.ManageUsers)
	}

	teamMember := guard.Require(service.Authenticated, service.TeamMember)
	teamOwner := guard.Require(service.Authenticated, service.TeamOwner)
	teams := router.Group("/t/:id")
	{
		teams.GET("/", teamMember, teamHandler.Home)
		teams.POST("/leave/", teamMember, teamHandler.Leave)
		teams.POST("/delete/", teamOwner, teamHandler.Delete)
		teams.GET("/chat/", teamMember, teamHandler.Chat)
		teams.POST("/chat/", teamMember, teamHandler.Chat)
		teams.GET("/events/", teamMember, teamHandler.Events)
		teams.POST("/events/", teamMember, teamHandler.Events)
		teams.GET("/files/", teamMember, teamHandler.Files)
		teams.POST("/files/", teamMember, teamHandler.Files)
		teams.GET("/users/", teamMember, teamHandler.Users)
		teams.PUT("/m/edit/", teamOwner, teamHandler.Edit)
		teams.GET("/m/users/", teamOwner, teamHandler.ManageUsers)
		teams.POST("/m/users/", teamOwner, teamHandler.ManageUsers)
	}

	router.GET("/providers/google", authenticated, providerHandler.GoogleCallback)

	router.NoRoute(guard.NoRoute())

	return router, nil
}
