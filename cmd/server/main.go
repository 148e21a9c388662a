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

	"studytrack-backend/internal/config"
	"studytrack-backend/internal/database"
	"studytrack-backend/internal/handlers"
	"studytrack-backend/internal/middleware"
	"studytrack-backend/internal/repository"
	"studytrack-backend/internal/router"
	"studytrack-backend/internal/services"
	"studytrack-backend/internal/websocket"
	"studytrack-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting StudyTrack Backend...")

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

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	subjectRepo := repository.NewSubjectRepo(pool)
	noteRepo := repository.NewNoteRepo(pool)
	questionRepo := repository.NewQuestionRepo(pool)
	goalRepo := repository.NewGoalRepo(pool)
	studySessionRepo := repository.NewStudySessionRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)
	attemptStore := repository.NewAttemptStore(redisClients.Queue, cfg.PracticeAttemptTTL)
	emailQueue := repository.NewEmailQueueRepo(redisClients.Queue)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	events := services.NewEventPublisher(redisClients.Queue)
	weeks := services.NewWeekResolver(userRepo, cfg.Week())

	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailQueue)
	catalogService := services.NewCatalogService(subjectRepo, noteRepo, questionRepo)
	practiceService := services.NewPracticeService(attemptStore, questionRepo, subjectRepo, quizRepo)
	goalService := services.NewGoalService(goalRepo)
	trackerService := services.NewTrackerService(studySessionRepo, subjectRepo, events, weeks)
	dashboardService := services.NewDashboardService(studySessionRepo, subjectRepo, goalRepo, weeks)
	userService := services.NewUserService(userRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	practiceHandler := handlers.NewPracticeHandler(practiceService)
	goalHandler := handlers.NewGoalHandler(goalService)
	studySessionHandler := handlers.NewStudySessionHandler(trackerService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	userHandler := handlers.NewUserHandler(userService, authService)
	healthHandler := handlers.NewHealthHandler(
		handlers.HealthCheck{Name: "postgres", Check: pool.Ping},
		handlers.HealthCheck{Name: "redis", Check: redisClients.Ping},
	)

	// ──── Step 5: Start Email Worker Pool ────
	workerPool := worker.NewPool(emailQueue, emailService, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	notificationScheduler := services.NewNotificationScheduler(userRepo, studySessionRepo, subjectRepo, emailQueue, cfg.Week())
	notificationScheduler.Start()
	log.Println("✓ Notification scheduler started")

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, trackerService)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		catalogHandler,
		practiceHandler,
		goalHandler,
		studySessionHandler,
		dashboardHandler,
		userHandler,
		healthHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		notificationScheduler.Stop()
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyTrack Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
