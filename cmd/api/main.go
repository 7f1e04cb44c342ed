package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/whispr/trust-api/internal/config"
	"github.com/whispr/trust-api/internal/domain/appeal"
	"github.com/whispr/trust-api/internal/domain/report"
	"github.com/whispr/trust-api/internal/domain/reputation"
	"github.com/whispr/trust-api/internal/domain/suspension"
	"github.com/whispr/trust-api/internal/domain/whisper"
	"github.com/whispr/trust-api/internal/jobs"
	"github.com/whispr/trust-api/internal/middleware"
	"github.com/whispr/trust-api/internal/pkg/database"
	"github.com/whispr/trust-api/internal/pkg/jwt"
	"github.com/whispr/trust-api/internal/pkg/logger"
	pkgresponse "github.com/whispr/trust-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Whispr trust API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	systemModeratorID, err := uuid.Parse(cfg.SystemModeratorID)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid SYSTEM_MODERATOR_ID")
	}

	// ---------- Repositories ----------
	reputationRepo := reputation.NewRepository(db)
	suspensionRepo := suspension.NewRepository(db)
	appealRepo := appeal.NewRepository(db)
	reportRepo := report.NewRepository(db)
	whisperRepo := whisper.NewRepository(db)

	// ---------- Services ----------
	reputationCache := reputation.NewCache(redis)
	reputationService := reputation.NewService(reputationRepo, reputationCache)
	suspensionService := suspension.NewService(suspensionRepo, reputationService)
	appealService := appeal.NewService(appealRepo, reputationService, systemModeratorID)
	reportService := report.NewService(reportRepo, reputationService, suspensionService, whisperRepo, cfg.EscalationWindowDays)

	// ---------- Handlers ----------
	reputationHandler := reputation.NewHandler(reputationService)
	suspensionHandler := suspension.NewHandler(suspensionService)
	appealHandler := appeal.NewHandler(appealService)
	reportHandler := report.NewHandler(reportService)

	authMiddleware := middleware.Auth(jwtService)
	moderatorMiddleware := middleware.RequireModerator()

	// ---------- Background sweeps ----------
	suspensionExpiry := jobs.NewSuspensionExpiry(suspensionService, cfg.SweepInterval)
	appealExpiry := jobs.NewAppealExpiry(appealService, cfg.SweepInterval)
	reputationRecovery := jobs.NewReputationRecovery(reputationService, cfg.RecoverySweepInterval)

	suspensionExpiry.Start()
	appealExpiry.Start()
	reputationRecovery.Start()
	defer suspensionExpiry.Stop()
	defer appealExpiry.Stop()
	defer reputationRecovery.Stop()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/reputation", reputationHandler.Routes(authMiddleware, moderatorMiddleware))
		r.Mount("/reports", reportHandler.Routes(authMiddleware, moderatorMiddleware))
		r.Mount("/suspensions", suspensionHandler.Routes(authMiddleware, moderatorMiddleware))
		r.Mount("/appeals", appealHandler.Routes(authMiddleware, moderatorMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
