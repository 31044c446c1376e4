// Command server is the long-running process: a cron-scheduled sync pass
// plus a minimal ops HTTP surface. Ported from the teacher's main.go (Fiber
// app, CORS config, signal-based graceful shutdown), with the screener
// routes replaced by /healthz and POST /sync and the scheduled sync pass
// from aristath-sentinel's cron idiom layered on top.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"hiqsync/internal/cache"
	"hiqsync/internal/config"
	"hiqsync/internal/fetch"
	"hiqsync/internal/logging"
	"hiqsync/internal/model"
	"hiqsync/internal/orchestrator"
	"hiqsync/internal/runledger"
	"hiqsync/internal/schedule"
	"hiqsync/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	log.Info().Msg("logger is ready")

	f := fetch.New(cfg.FetchBaseURL, cfg.FetchTimeout)

	var warm *cache.WarmPopulator
	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		redisStore, err := cache.NewRedisStore(cache.RedisOptions{
			URL:      cfg.RedisURL,
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		}, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis warm cache unavailable, continuing without it")
		} else {
			warm = &cache.WarmPopulator{Redis: redisStore, TTL: cfg.CacheTTL, Log: log}
			defer redisStore.Close()
		}
	}
	if warm == nil {
		warm = &cache.WarmPopulator{Log: log}
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	mongoStore, err := store.NewStore(model.DestTypeMongoDB, cfg.MongoURL, cfg, f, warm, nil, logging.Component(log, "mongodb"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build mongodb store")
	}
	if err := mongoStore.Init(initCtx, false); err != nil {
		initCancel()
		log.Fatal().Err(err).Msg("failed to initialize mongodb store")
	}
	initCancel()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mongoStore.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("error closing mongodb store")
		}
	}()

	var ledger *runledger.Ledger
	if cfg.RunLedgerDSN != "" {
		l, err := runledger.Open(cfg.RunLedgerDSN, log)
		if err != nil {
			log.Warn().Err(err).Msg("run ledger unavailable, sync runs will not be recorded")
		} else {
			ledger = l
			defer ledger.Close()
		}
	}

	stores := map[model.DestType]store.Store{model.DestTypeMongoDB: mongoStore}
	orch := orchestrator.New(stores, cfg.TaskCount, logging.Component(log, "orchestrator"))
	syncJob := orchestrator.NewSyncJob(orch, ledger, "mongodb", false, logging.Component(log, "sync-job"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := schedule.New(log)
	if err := sched.AddJob(ctx, cfg.CronSchedule, syncJob); err != nil {
		log.Fatal().Err(err).Msg("failed to register sync job")
	}
	sched.Start()
	defer sched.Stop()

	app := fiber.New(fiber.Config{AppName: "hiqsync"})
	app.Use(logger.New())
	app.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/sync", func(c *fiber.Ctx) error {
		go func() {
			if err := sched.RunNow(ctx, syncJob); err != nil {
				log.Error().Err(err).Msg("manually triggered sync failed")
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-quit
	log.Info().Msg("shutting down gracefully")
	cancel()

	if err := app.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("error during http shutdown")
	}
	log.Info().Msg("server stopped")
}

// corsConfig mirrors the teacher's wildcard-vs-explicit-origins handling:
// credentials can only be allowed when origins are an explicit list, never
// alongside a "*" wildcard.
func corsConfig(allowedOrigins string) cors.Config {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}

	cfg := cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}

	if allowedOrigins == "*" {
		cfg.AllowOrigins = "*"
		cfg.AllowCredentials = false
		return cfg
	}

	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.AllowOrigins = strings.Join(origins, ",")
	cfg.AllowCredentials = true
	return cfg
}
