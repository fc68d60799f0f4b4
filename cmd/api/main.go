package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/job-portal/internal/config"
	"alfredoptarigan/job-portal/internal/handlers"
	"alfredoptarigan/job-portal/internal/repositories"
	"alfredoptarigan/job-portal/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	log.Println("✅ Repositories initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Semantic search is optional. Interfaces stay nil when it is not configured.
	var gemini services.GeminiService
	var index services.JobVectorIndex
	if cfg.SemanticSearchEnabled() {
		gemini, err = services.NewGeminiService(ctx, cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")

		index, err = services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := index.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  GEMINI_API_KEY or QDRANT_URL not set, semantic search disabled")
	}

	limiter, closeLimiter, err := services.NewRateLimiterFromURL(ctx, cfg.RateLimit.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize rate limiter: %v", err)
	}
	if cfg.RateLimit.RedisURL != "" {
		log.Println("✅ Redis rate limiter initialized successfully")
	}

	// Initialize worker
	worker := services.NewWorker(jobRepo, gemini, index, cfg.Worker.Concurrency, cfg.Worker.ExpirySweepInterval)
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize services
	authService := services.NewAuthService(userRepo, services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	jobService := services.NewJobService(jobRepo, userRepo, worker)
	applicationService := services.NewApplicationService(
		appRepo,
		jobRepo,
		userRepo,
		jobService,
		services.NewLifecycle(cfg.Lifecycle.LockTerminalStatus),
	)
	profileService := services.NewProfileService(
		userRepo,
		docRepo,
		storageService,
		services.NewPDFParserService(),
		services.NewResumeParser(gemini, cfg.Gemini.MaxRetries),
		cfg.Storage.MaxFileSize,
	)
	recommender := services.NewRecommendationService(jobRepo, gemini, index)
	log.Println("✅ Services initialized successfully")

	h := &handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Profile:     handlers.NewProfileHandler(profileService),
		Upload:      handlers.NewUploadHandler(profileService, cfg.Storage.MaxFileSize),
		Jobs:        handlers.NewJobHandler(jobService, applicationService, recommender),
		Application: handlers.NewApplicationHandler(applicationService),
		Admin:       handlers.NewAdminHandler(services.NewAdminService(userRepo)),
		Analytics:   handlers.NewAnalyticsHandler(services.NewAnalyticsService(appRepo, jobRepo)),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Job Portal API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static("/uploads", cfg.Storage.UploadPath)

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"time":            time.Now(),
			"semantic_search": cfg.SemanticSearchEnabled(),
		})
	})

	handlers.RegisterRoutes(api, h, authService, handlers.Throttle{
		Limiter:          limiter,
		LoginMaxAttempts: cfg.RateLimit.LoginMaxAttempts,
		LoginWindow:      cfg.RateLimit.LoginWindow,
		ResetMaxAttempts: cfg.RateLimit.ResetMaxAttempts,
		ResetWindow:      cfg.RateLimit.ResetWindow,
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Job Portal API",
			"version": "1.0.0",
			"endpoints": []string{
				"/api/v1/auth",
				"/api/v1/users",
				"/api/v1/jobs",
				"/api/v1/applications",
				"/api/v1/admin",
				"/api/v1/analytics",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		cancel()
		worker.Stop()
		if err := closeLimiter(); err != nil {
			log.Printf("⚠️  Failed to close rate limiter: %v", err)
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
