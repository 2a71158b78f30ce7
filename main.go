package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	"studyhub/assetstore"
	"studyhub/config"
	"studyhub/logger"
	"studyhub/middleware"
	"studyhub/repository"
	"studyhub/routes"
	"studyhub/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	appLog, err := logger.New(cfg.AppMode)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer appLog.Sync()

	// Initialize database
	db, err := repository.InitDB(cfg)
	if err != nil {
		appLog.Fatal("failed to initialize database", "error", err)
	}

	// Optional course detail cache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// Asset storage
	assets, err := assetstore.NewLocalStore(cfg.AssetDir, cfg.AssetBase, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize asset store", "error", err)
	}

	// Repositories
	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	courses := repository.NewCourseRepo(db, rdb, appLog)
	sections := repository.NewSectionRepo(db)
	subSections := repository.NewSubSectionRepo(db)
	ratings := repository.NewRatingRepo(db)
	progress := repository.NewProgressRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)

	// Services
	courseService := services.NewCourseService(
		courses, categories, sections, subSections, ratings, progress, enrollments, assets, appLog)
	progressService := services.NewProgressService(
		courses, sections, subSections, progress, enrollments, appLog)
	ratingService := services.NewRatingService(ratings, courses, appLog)
	enrollmentService := services.NewEnrollmentService(users, courses, enrollments, progress, appLog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024, // video uploads
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(appLog))

	// Serve stored assets
	app.Static("/assets", cfg.AssetDir)

	// Setup routes
	ctrl := routes.NewControllers(
		users, categories, courseService, progressService, ratingService, enrollmentService, cfg)
	routes.SetupRoutes(app, ctrl, users, cfg)

	// Start server
	appLog.Info("server starting", "port", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
