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

	"murajaah-backend/internal/config"
	"murajaah-backend/internal/database"
	"murajaah-backend/internal/handlers"
	"murajaah-backend/internal/middleware"
	"murajaah-backend/internal/repository"
	"murajaah-backend/internal/router"
	"murajaah-backend/internal/services"
	"murajaah-backend/internal/websocket"
	"murajaah-backend/internal/worker"
)

func main() {
	log.Println("Starting Murajaah Backend...")

	cfg := config.Load()
	log.Println("Environment variables loaded")

	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("PostgreSQL connected")

	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("Redis connected")

	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database migrations applied")

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	scheduleRepo := repository.NewScheduleRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)

	// Services
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth)
	reviewService := services.NewReviewService(scheduleRepo, statsRepo, progressRepo, redisClients.Queue)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	reviewHandler := handlers.NewReviewHandler(reviewService, cfg.DueLimitDefault)

	// Background workers
	workerPool := worker.NewPool(redisClients.Queue, redisClients.PubSub, progressRepo, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("Worker pool started (%d goroutines)", cfg.WorkerCount)

	reminderScheduler := services.NewReminderScheduler(scheduleRepo, redisClients.PubSub, time.Duration(cfg.ReminderPollMinutes)*time.Minute)
	reminderScheduler.Start()

	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("WebSocket hub started")

	r := router.New(jwtAuth, authHandler, reviewHandler, wsHub, cfg.FrontendURL)

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
		workerPool.Stop()
		reminderScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Murajaah Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
