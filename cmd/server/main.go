package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopzone/shopzone-backend/config"
	"github.com/shopzone/shopzone-backend/internal/app/controller"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/shopzone/shopzone-backend/internal/middleware"
	"github.com/shopzone/shopzone-backend/internal/router"
	"github.com/shopzone/shopzone-backend/internal/scheduler"
	"github.com/shopzone/shopzone-backend/internal/storage"
	"github.com/shopzone/shopzone-backend/internal/websocket"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"github.com/shopzone/shopzone-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SHOPZONE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token revocation needs Redis; everything else works without it.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, logout revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	activityRepo := repository.NewActivityLogRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Services
	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(userRepo, activityService, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	userService := service.NewUserService(userRepo, activityService)
	addressService := service.NewAddressService(addressRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, activityService)
	cartService := service.NewCartService(cartRepo, productRepo, activityService)
	orderService := service.NewOrderService(orderRepo, cartRepo, activityService, hub, db.GetDB())
	adminService := service.NewAdminService(userRepo, productRepo, orderRepo)

	// Storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	userController := controller.NewUserController(userService)
	addressController := controller.NewAddressController(addressService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	adminController := controller.NewAdminController(adminService, userService, orderService, activityService)
	uploadController := controller.NewUploadController(s3Storage)
	websocketController := controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Abandoned cart purge
	cartCleanup := scheduler.NewCartCleanupScheduler(cartRepo)
	if err := cartCleanup.Start(); err != nil {
		logger.Warn("Cart cleanup scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer cartCleanup.Stop()

	r := router.NewRouter(
		authController,
		userController,
		addressController,
		categoryController,
		productController,
		cartController,
		orderController,
		adminController,
		uploadController,
		websocketController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
