// The sweeper runs the maintenance sweeps standalone, for deployments that
// keep background work off the API pods. Sweeps run on their intervals; a
// Redis pub/sub message on the wake channel triggers an immediate pass.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/whispr/trust-api/internal/config"
	"github.com/whispr/trust-api/internal/domain/appeal"
	"github.com/whispr/trust-api/internal/domain/reputation"
	"github.com/whispr/trust-api/internal/domain/suspension"
	"github.com/whispr/trust-api/internal/jobs"
	"github.com/whispr/trust-api/internal/pkg/database"
	"github.com/whispr/trust-api/internal/pkg/logger"
)

const wakeChannel = "moderation:wake"

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().Msg("Starting sweeper")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	reputationCache := reputation.NewCache(rdb)
	reputationService := reputation.NewService(reputation.NewRepository(db), reputationCache)
	suspensionService := suspension.NewService(suspension.NewRepository(db), reputationService)
	appealService := appeal.NewService(appeal.NewRepository(db), reputationService,
		mustSystemModerator(cfg.SystemModeratorID))

	processors := []*jobs.Processor{
		jobs.NewSuspensionExpiry(suspensionService, cfg.SweepInterval),
		jobs.NewAppealExpiry(appealService, cfg.SweepInterval),
		jobs.NewReputationRecovery(reputationService, cfg.RecoverySweepInterval),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, p := range processors {
		p.Start()
	}

	// Optional: Redis pub/sub wake-up (the interval loops still run)
	wake := make(chan struct{}, 1)
	go subscribeWakeups(ctx, rdb, wake)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	for {
		select {
		case <-sigChan:
			log.Info().Msg("Shutdown signal received")
			cancel()
			for _, p := range processors {
				p.Stop()
			}
			log.Info().Msg("Sweeper stopped")
			return

		case <-wake:
			runAll(ctx, processors)
		}
	}
}

func runAll(ctx context.Context, processors []*jobs.Processor) {
	sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	for _, p := range processors {
		if _, err := p.RunOnce(sweepCtx); err != nil {
			log.Error().Err(err).Msg("Triggered sweep failed")
		}
	}
}

func subscribeWakeups(ctx context.Context, rdb *goredis.Client, wake chan<- struct{}) {
	if rdb == nil {
		return
	}

	sub := rdb.Subscribe(ctx, wakeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

func mustSystemModerator(raw string) uuid.UUID {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid SYSTEM_MODERATOR_ID")
	}
	return parsed
}
