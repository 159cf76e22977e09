package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/database"
	"github.com/examduty/dutybook-backend/internal/handler"
	"github.com/examduty/dutybook-backend/internal/logger"
	"github.com/examduty/dutybook-backend/internal/middleware"
	"github.com/examduty/dutybook-backend/internal/repository"
	"github.com/examduty/dutybook-backend/internal/router"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/validator"
	"github.com/examduty/dutybook-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting duty booking backend")

	if cfg.AdminSecretKey == "" {
		log.Warn().Msg("ADMIN_SECRET_KEY is empty, admin login is disabled")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload directory")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	facultyRepo := repository.NewFacultyRepository(pool)
	dateRepo := repository.NewAvailableDateRepository(pool)
	eventRepo := repository.NewBookingEventRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	eventQueue := service.NewEventQueue(rdb)
	authService := service.NewAuthService(cfg)
	mediaService := service.NewMediaService(cfg)
	facultyService := service.NewFacultyService(facultyRepo, authService, mediaService, log)
	catalogService := service.NewCatalogService(dateRepo, eventQueue, log)
	bookingService := service.NewBookingService(facultyRepo, eventRepo, eventQueue, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(facultyService),
		Faculty: handler.NewFacultyHandler(facultyService, bookingService),
		Admin:   handler.NewAdminHandler(facultyService, catalogService, bookingService),
		WS:      handler.NewWSHandler(service.NewRedisFeed(rdb), log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	eventWorker := worker.NewBookingEventWorker(eventRepo, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		eventWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, authService, handlers, middleware.NewRedisCounter(rdb), log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the event worker and wait for the queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
