package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/swapdonaterent-backend/config"
	"github.com/ikkim/swapdonaterent-backend/internal/app/controller"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/app/service"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/ikkim/swapdonaterent-backend/internal/middleware"
	"github.com/ikkim/swapdonaterent-backend/internal/router"
	"github.com/ikkim/swapdonaterent-backend/internal/scheduler"
	"github.com/ikkim/swapdonaterent-backend/internal/storage"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"github.com/ikkim/swapdonaterent-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SWAPDONATERENT Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the cart badge counter; everything degrades
	// gracefully when it is disabled.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Failed to connect to Redis, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	itemRepo := repository.NewItemRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	convRepo := repository.NewConversationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, itemRepo)
	conversationService := service.NewConversationService(db.GetDB(), convRepo, itemRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	itemController := controller.NewItemController(itemService)
	categoryController := controller.NewCategoryController(itemService)
	cartController := controller.NewCartController(cartService)
	conversationController := controller.NewConversationController(conversationService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Background maintenance jobs
	maintenanceScheduler := scheduler.NewMaintenanceScheduler(passwordResetService)
	if err := maintenanceScheduler.Start(); err != nil {
		logger.Warn("Failed to start maintenance scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer maintenanceScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		itemController,
		categoryController,
		cartController,
		conversationController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
