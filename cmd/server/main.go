package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"starbound/internal/config"
	"starbound/internal/database"
	"starbound/internal/handlers"
	"starbound/internal/quiz"
	"starbound/internal/repository"
	"starbound/internal/security"
	"starbound/internal/service"
	"starbound/internal/token"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
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

	// Load question banks
	banks, err := quiz.LoadBanks()
	if err != nil {
		log.Fatalf("Failed to load question banks: %v", err)
	}
	engine := quiz.NewEngine(banks)

	log.Printf("Loaded %d question banks", len(banks))

	minter, err := token.NewMinter(cfg.JWTSecret, cfg.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to initialize token minter: %v", err)
	}

	smsService, err := service.NewSMSService(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize code delivery: %v", err)
	}
	archiveService, err := service.NewArchiveService(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event archive: %v", err)
	}
	if archiveService.Enabled() {
		log.Printf("Raw event archive enabled (bucket: %s)", cfg.RawBucket)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	saveRepo := repository.NewSaveRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	resultRepo := repository.NewTestResultRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, smsService, minter, cfg.CodeTTL, cfg.DebugOTP)
	progression := service.NewProgressionService(statsRepo, resultRepo, saveRepo, engine.Has)
	saveService := service.NewSaveService(saveRepo)
	testService := service.NewTestService(engine, progression, resultRepo)
	sessionService := service.NewSessionService(progression, sessionRepo, statsRepo, archiveService)

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService)
	meHandler := handlers.NewMeHandler(authService, progression)
	saveHandler := handlers.NewSaveHandler(saveService)
	testHandler := handlers.NewTestHandler(testService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/start", middleware.RateLimit(authHandler.Start))
	mux.HandleFunc("POST /api/auth/verify", middleware.RateLimit(authHandler.Verify))

	mux.HandleFunc("GET /api/me", middleware.RequireAuth(meHandler.Get))
	mux.HandleFunc("POST /api/me", middleware.RequireAuth(meHandler.UpdateName))

	mux.HandleFunc("GET /api/games/{game_id}/save", middleware.RequireAuth(saveHandler.Get))
	mux.HandleFunc("PUT /api/games/{game_id}/save", middleware.RequireAuth(saveHandler.Put))
	mux.HandleFunc("DELETE /api/games/{game_id}/save", middleware.RequireAuth(saveHandler.Delete))

	mux.HandleFunc("GET /api/games/{game_id}/tests/{test_type}", middleware.RequireAuth(testHandler.Get))
	mux.HandleFunc("POST /api/games/{game_id}/tests/{test_type}/submit", middleware.RequireAuth(testHandler.Submit))

	mux.HandleFunc("POST /api/games/{game_id}/session/start", middleware.RequireAuth(sessionHandler.Start))
	mux.HandleFunc("POST /api/games/{game_id}/session/{session_id}/finish", middleware.RequireAuth(sessionHandler.Finish))

	mux.HandleFunc("/", handlers.NotFound)

	handler := handlers.Logging(handlers.Recover(handlers.CORS(mux)))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background code cleanup
	go cleanupExpiredCodes(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredCodes periodically removes expired verification codes
func cleanupExpiredCodes(authService *service.AuthService) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredCodes(); err != nil {
			log.Printf("Failed to clean up expired codes: %v", err)
		}
	}
}
