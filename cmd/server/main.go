package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/database"
	"github.com/kerkportaal/lms-backend/internal/handler"
	"github.com/kerkportaal/lms-backend/internal/logger"
	"github.com/kerkportaal/lms-backend/internal/repository"
	"github.com/kerkportaal/lms-backend/internal/router"
	"github.com/kerkportaal/lms-backend/internal/service"
	"github.com/kerkportaal/lms-backend/internal/validator"
	"github.com/kerkportaal/lms-backend/internal/worker"
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
		Msg("Starting Kerkportaal LMS Backend")

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

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	attemptRepo := repository.NewQuizAttemptRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	credentialRepo := repository.NewCredentialRepository(pool)
	certificateRepo := repository.NewCertificateRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo)
	courseService := service.NewCourseService(courseRepo, rdb, log)
	credentialService := service.NewCredentialService(credentialRepo, cfg.DefaultVBOCredits, log)
	certificateService := service.NewCertificateService(cfg.CertificateServiceURL, certificateRepo, log)
	progressService := service.NewProgressService(progressRepo, courseService, credentialService, certificateService, rdb, log)
	quizService := service.NewQuizService(questionRepo, attemptRepo, log)
	submissionService := service.NewSubmissionService(submissionRepo, log)
	videoService := service.NewVideoService(rdb, log)
	playerService := service.NewPlayerService(
		courseService, progressService, quizService, submissionService,
		videoService, rdb, cfg.AutoAdvanceDelay, log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Course:     handler.NewCourseHandler(courseService),
		Player:     handler.NewPlayerHandler(playerService, authService),
		Credential: handler.NewCredentialHandler(credentialService, certificateService),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	checkpointWorker := worker.NewCheckpointWorker(progressRepo, rdb, log)
	go checkpointWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published courses into Redis BEFORE accepting traffic.
	if err := courseService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	// 2. Stop the checkpoint worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
