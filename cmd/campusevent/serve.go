package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campusevent/campusevent-api/internal/api"
	"github.com/campusevent/campusevent-api/internal/core/ports"
	"github.com/campusevent/campusevent-api/internal/core/security"
	"github.com/campusevent/campusevent-api/internal/core/service"
	"github.com/campusevent/campusevent-api/internal/infrastructure/db/mongo"
	"github.com/campusevent/campusevent-api/internal/infrastructure/db/redis"
	"github.com/campusevent/campusevent-api/internal/infrastructure/external"
	"github.com/campusevent/campusevent-api/internal/infrastructure/http/handlers"
	"github.com/campusevent/campusevent-api/internal/infrastructure/queue"
	"github.com/campusevent/campusevent-api/internal/pkg/config"
	"github.com/campusevent/campusevent-api/pkg/logger"
)

const (
	serviceName     = "campusevent-api"
	shutdownTimeout = 10 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API and the background geocoding workers. The
process stops gracefully on SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	tokens, err := security.NewTokenCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	// --- Storage ---
	store := mongo.NewStore(mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.ConnectTimeout,
		Attempts: cfg.Mongo.ConnectAttempts,
	}, logger.Component(log, "mongo"))
	warmUp(ctx, store, cfg.Mongo.ConnectTimeout, log)

	users := mongo.NewUserRepository(store)
	events := mongo.NewEventRepository(store)

	readiness := map[string]handlers.Pinger{"mongodb": store}

	// --- Enrichment ---
	var weather ports.WeatherProvider = external.NewOpenWeatherClient(cfg.Weather.APIKey, nil)
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, weather cache disabled")
		} else {
			weather = redis.NewWeatherCache(rdb, weather, cfg.Weather.CacheTTL, logger.Component(log, "weather_cache"))
			readiness["redis"] = handlers.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})
		}
	}

	geocoder := external.NewOpenCageGeocoder(cfg.Enrich.GeocodingAPIKey, nil, logger.Component(log, "geocoder"))
	enricher := service.NewEnrichmentService(events, geocoder, logger.Component(log, "enrichment"))
	dispatcher := queue.NewDispatcher(cfg.Enrich.Workers, enricher, logger.Component(log, "dispatcher"))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	var geocodeQueue service.GeocodeQueue
	if geocoder.Enabled() {
		geocodeQueue = dispatcher
	} else {
		log.Info().Msg("GEOCODING_API_KEY not set, events will not be geocoded")
	}

	// --- Services & HTTP ---
	authService := service.NewAuthService(users, security.NewBcryptHasher(), tokens, cfg.Auth.TokenTTL, logger.Component(log, "auth"))
	eventService := service.NewEventService(events, geocodeQueue, weather, logger.Component(log, "events"))

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Authenticator: authService,
		Events:        eventService,
		Readiness:     readiness,
		Log:           log,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	stopWorkers()
	dispatcher.Wait()
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}

	log.Info().Msg("shutdown complete")
	return nil
}

// warmUp tries to connect before traffic arrives. A failure is not fatal:
// the store connects on first use, and readiness reports it as unhealthy
// until then.
func warmUp(ctx context.Context, store *mongo.Store, timeout time.Duration, log zerolog.Logger) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	warmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := store.Ping(warmCtx); err != nil {
		log.Warn().Err(err).Msg("mongodb not reachable at startup, will retry on first request")
	}
}
