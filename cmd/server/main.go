package main

import (
	"log"

	"teamspace-backend/internal/api/routes"
	"teamspace-backend/internal/config"
	"teamspace-backend/internal/database"
	"teamspace-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "teamspace-backend/docs" // This is needed for swag
)

//	@title			Teamspace Backend API
//	@version		1.0
//	@description	Organizations, teams and their shared chat, events and files, with membership-based access control.

//	@contact.name	API Support
//	@contact.url	http://www.example.com/support
//	@contact.email	support@example.com

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8000
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token. Browsers use the session cookie instead.

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger.Setup(cfg.LogLevel)

	// Initialize database
	db, err := database.Initialize(cfg.DSN(), &database.Options{Driver: cfg.DatabaseDriver})
	if err != nil {
		logrus.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router, err := routes.SetupRoutes(db, cfg)
	if err != nil {
		logrus.Fatal("Failed to set up routes:", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":   cfg.Port,
		"driver": cfg.DatabaseDriver,
	}).Info("Starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatal("Failed to start server:", err)
	}
}
