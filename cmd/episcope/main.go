package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/episcope/episcope/internal/addon"
	"github.com/episcope/episcope/internal/api"
	"github.com/episcope/episcope/internal/config"
	"github.com/episcope/episcope/internal/enrich"
	"github.com/episcope/episcope/internal/logger"
	"github.com/episcope/episcope/internal/metadata/tmdb"
	"github.com/episcope/episcope/internal/ratings/omdb"
	"github.com/episcope/episcope/internal/scheduler"
)

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", addon.Version).
		Str("logLevel", cfg.Logging.Level).
		Int("port", cfg.Server.Port).
		Msg("starting episcope")

	defaults := enrich.Credentials{
		TMDBKey: cfg.TMDB.APIKey,
		OMDBKey: cfg.OMDB.APIKey,
	}
	if !defaults.Complete() {
		log.Warn().Msg("no process-wide API keys configured; only user-configured requests will succeed")
	}

	metadataClient := tmdb.NewClient(cfg.TMDB, log.Logger)
	ratingsClient := omdb.NewClient(cfg.OMDB, log.Logger)

	cache := enrich.NewCache()
	resolver := enrich.NewResolver(metadataClient, ratingsClient, cache,
		time.Duration(cfg.Cache.EpisodeTTLHours)*time.Hour, log.Logger)
	assembler := enrich.NewAssembler(metadataClient, resolver, cache, enrich.AssemblerOptions{
		Addressing: cfg.Addon.Addressing,
		SeriesTTL:  time.Duration(cfg.Cache.SeriesTTLHours) * time.Hour,
		Workers:    cfg.Addon.Workers,
	}, log.Logger)
	service := enrich.NewService(assembler, defaults, cfg.Addon.FailureMode, log.Logger)

	handlers := addon.NewHandlers(service, addon.NewManifest(defaults.Complete()), log.Logger)
	server := api.NewServer(handlers, log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := sched.RegisterTask(scheduler.TaskConfig{
		ID:   "cache-sweep",
		Name: "Cache Sweep",
		Cron: cfg.Cache.SweepCron,
		Func: func(ctx context.Context) error {
			dropped := cache.Sweep()
			log.Debug().Int("dropped", dropped).Msg("cache sweep finished")
			return nil
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register cache sweep task")
	}
	sched.Start()

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
