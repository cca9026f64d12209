package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learngate/internal/config"
	"learngate/internal/database"
	"learngate/internal/handlers"
	"learngate/internal/middleware"
	"learngate/internal/repository"
	"learngate/internal/router"
	"learngate/internal/services"
	"learngate/internal/session"
	"learngate/internal/storage"
)

func main() {
	log.Println("🚀 Starting LearnGate...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Session Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Select Upload Storage ────
	uploads, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("✗ Upload storage initialization failed: %v", err)
	}
	if uploads.Mode() == storage.ModeDisk {
		log.Printf("✓ Upload storage: disk (%s) — files will NOT survive a redeploy; set Cloudinary credentials for durable storage", cfg.UploadDir)
	} else {
		log.Printf("✓ Upload storage: %s", uploads.Mode())
	}

	// ──── Initialize Repositories ────
	studentRepo := repository.NewStudentRepo(pool)
	adminRepo := repository.NewAdminRepo(pool)
	resourceRepo := repository.NewResourceRepo(pool)
	categoryRepo := repository.NewCategoryRepo(pool)

	// ──── Initialize Services ────
	sessionStore := session.NewStore(redisClient, time.Duration(cfg.SessionTTLHours)*time.Hour)
	authService := services.NewAuthService(studentRepo, adminRepo, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
	catalogService := services.NewCatalogService(resourceRepo, categoryRepo, uploads)

	// ──── Initialize Handlers ────
	renderer, err := handlers.NewRenderer("templates")
	if err != nil {
		log.Fatalf("✗ Template parsing failed: %v", err)
	}
	sessionAuth := middleware.NewAuth(sessionStore, studentRepo, renderer, cfg.CookieName, cfg.SecureCookies())
	studentHandler := handlers.NewStudentHandler(authService, catalogService, sessionAuth, renderer)
	adminHandler := handlers.NewAdminHandler(authService, catalogService, sessionAuth, renderer)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(sessionAuth, studentHandler, adminHandler, uploads)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		// Long enough to finish relaying a proxied PDF.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LearnGate ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
