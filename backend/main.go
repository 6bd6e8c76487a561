package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"akatsuki/backend/cache"
	"akatsuki/backend/config"
	"akatsuki/backend/events"
	"akatsuki/backend/middleware"
	"akatsuki/backend/routes"
	"akatsuki/backend/services"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat})
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Error initializing database", "error", err)
	}
	if err := utils.Migrate(db); err != nil {
		logger.Fatalw("Error migrating database", "error", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warnw("Redis unavailable, leaderboard served from database", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	leaderboard := cache.NewLeaderboard(redisClient, logger)

	publisher, err := events.NewEventPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.Fatalw("Error initializing event publisher", "error", err)
	}
	defer publisher.Close()

	deps := services.NewDeps(db, cfg, logger, publisher, leaderboard)
	if leaderboard.Enabled() {
		if err := services.NewLeaderboardService(deps).Sync(context.Background()); err != nil {
			logger.Warnw("Leaderboard sync failed", "error", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "learning-platform",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, deps, services.AcceptAllChecker{})

	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Fatalw("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Errorw("Shutdown failed", "error", err)
	}
}
