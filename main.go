package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"mixtape/internal/cache"
	"mixtape/internal/config"
	"mixtape/internal/handlers"
	"mixtape/internal/logger"
	"mixtape/internal/middleware"
	"mixtape/internal/platform"
	"mixtape/internal/repositories"
	"mixtape/internal/services"
	"mixtape/internal/storage"
	"mixtape/pkg/events"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := repositories.Open(cfg.DatabaseURL, logger.L())
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		logger.Error("failed to set up upload storage", "error", err)
		os.Exit(1)
	}

	var resultCache cache.Cache = cache.NewMemoryCache()
	if cfg.CacheBackend == "redis" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisDB)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Warn("redis unreachable, search results will not be cached", "addr", cfg.RedisAddr, "error", err)
		}
		resultCache = redisCache
	}

	// The event publisher is optional: without a broker, engagement
	// events simply stay in the database.
	var publisher *events.Client
	if cfg.AMQPURL != "" {
		publisher, err = events.NewClient(events.Config{URL: cfg.AMQPURL})
		if err != nil {
			logger.Warn("event publishing disabled", "error", err)
		} else {
			defer publisher.Close()
		}
	}

	// Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)
	songRepo := repositories.NewGORMSongRepository(db)
	interactionRepo := repositories.NewGORMInteractionRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	historyRepo := repositories.NewGORMSearchHistoryRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	notificationService := services.NewNotificationService(notificationRepo, publisher)
	playlistService := services.NewPlaylistService(playlistRepo, songRepo, interactionRepo, notificationService, store)
	songService := services.NewSongService(songRepo, playlistRepo, platform.NewEnricher())
	userService := services.NewUserService(userRepo, store)
	searchService := services.NewSearchService(userRepo, playlistRepo, interactionRepo, historyRepo, resultCache)

	// Middleware
	requireAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.AuthOptional(authService)

	app := fiber.New(fiber.Config{BodyLimit: storage.MaxImageSize + 1024*1024})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())
	app.Static(cfg.UploadBaseURL, cfg.UploadDir)

	// Routes
	handlers.NewAuthHandler(authService).RegisterRoutes(app, requireAuth)
	handlers.NewUserHandler(userService, playlistService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewPlaylistHandler(playlistService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewSongHandler(songService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewDiscoverHandler(playlistService, userService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewSearchHandler(searchService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(app, requireAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "route not found",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "port", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
