package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexidrill/internal/config"
	"lexidrill/internal/database"
	"lexidrill/internal/handlers"
	"lexidrill/internal/repository"
	"lexidrill/internal/security"
	"lexidrill/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	vocabRepo := repository.NewVocabRepository(db)
	flashcardRepo := repository.NewFlashcardRepository(db)
	importRepo := repository.NewImportRepository(db)

	// Initialize supporting infrastructure
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	limiter := security.NewRateLimiter(60, time.Minute)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create email service: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, emailService)
	listService := service.NewListService(vocabRepo)
	importService := service.NewImportService(importRepo, vocabRepo, userRepo, emailService)
	studyService := service.NewStudyService(flashcardRepo)

	// Initialize handlers
	middleware := handlers.NewMiddleware(tokens, limiter)
	authHandler := handlers.NewAuthHandler(authService)
	listHandler := handlers.NewListHandler(listService)
	importHandler := handlers.NewImportHandler(importService, cfg.WorkerSecret)
	studyHandler := handlers.NewStudyHandler(studyService)

	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))

	// List routes
	mux.HandleFunc("GET /api/lists", middleware.RequireAuth(listHandler.List))
	mux.HandleFunc("POST /api/lists", middleware.RequireAuth(listHandler.Create))
	mux.HandleFunc("GET /api/lists/{id}", middleware.RequireAuth(listHandler.Get))
	mux.HandleFunc("POST /api/lists/{id}/items", middleware.RequireAuth(listHandler.AddItem))
	mux.HandleFunc("DELETE /api/lists/{id}", middleware.RequireAuth(listHandler.Delete))

	// Import routes
	mux.HandleFunc("POST /api/vocab/imports", middleware.RequireAuth(importHandler.Create))
	mux.HandleFunc("GET /api/vocab/imports/{importId}", middleware.RequireAuth(importHandler.Get))
	mux.HandleFunc("POST /api/internal/vocab-imports/process", importHandler.Process)

	// Study routes
	mux.HandleFunc("POST /api/study/queue", middleware.RequireAuth(studyHandler.Queue))
	mux.HandleFunc("POST /api/study/review", middleware.RequireAuth(studyHandler.Review))
	mux.HandleFunc("GET /api/study/stats", middleware.RequireAuth(studyHandler.Stats))
	mux.HandleFunc("GET /api/library/stubborn-words", middleware.RequireAuth(studyHandler.StubbornWords))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
