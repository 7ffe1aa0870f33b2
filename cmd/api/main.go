package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sehajmakkar/powerplay-assignment/internal/app"
	"github.com/sehajmakkar/powerplay-assignment/internal/clock"
	"github.com/sehajmakkar/powerplay-assignment/internal/config"
	"github.com/sehajmakkar/powerplay-assignment/internal/metrics"
	"github.com/sehajmakkar/powerplay-assignment/internal/storage/postgres"
	redisstore "github.com/sehajmakkar/powerplay-assignment/internal/storage/redis"
	transporthttp "github.com/sehajmakkar/powerplay-assignment/internal/transport/http"
	"github.com/sehajmakkar/powerplay-assignment/migrations"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// seatStore is the union of what the engine and the admin service need; both
// backends implement it in full.
type seatStore interface {
	app.InventoryStore
	app.AdminStore
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := newLogger(cfg.App)

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, closeStore, err := openStore(startupCtx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	engine := app.NewReservationService(store, clock.System(), logger,
		app.WithEngineMetrics(engineMetrics),
		app.WithMaxAttempts(cfg.Engine.MaxAttempts),
		app.WithRetryBackoff(cfg.Engine.RetryBackoff),
	)
	admin := app.NewAdminService(store)

	if cfg.Seed.Enabled {
		inv, err := admin.EnsureEvent(startupCtx, app.CreateEventInput{
			EventID:    cfg.Seed.EventID,
			Name:       cfg.Seed.EventName,
			TotalSeats: cfg.Seed.TotalSeats,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("seed event")
		}
		logger.Info().
			Str("event_id", inv.EventID).
			Int("total_seats", inv.TotalSeats).
			Int("available_seats", inv.AvailableSeats).
			Msg("seed event ready")
	}

	handler := transporthttp.NewRouter(transporthttp.RouterDeps{
		Engine:         engine,
		Admin:          admin,
		DefaultEventID: cfg.Seed.EventID,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: transporthttp.RequestLogger(handler, logger),
	}

	logger.Info().Str("port", cfg.App.Port).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}

func newLogger(cfg config.AppConfig) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.LogFormat == "console" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "reservations-api").
		Logger().
		Level(level)
}

func openStore(ctx context.Context, cfg *config.Config) (seatStore, func(), error) {
	backend, err := cfg.Store.Normalized()
	if err != nil {
		return nil, nil, err
	}

	switch backend {
	case config.BackendPostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.DB.URL)
		if err != nil {
			return nil, nil, err
		}
		poolCfg.MaxConns = cfg.DB.MaxConns

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStore(pool), pool.Close, nil

	case config.BackendRedis:
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return redisstore.NewStore(client), func() { _ = client.Close() }, nil
	}

	return nil, nil, errors.New("unreachable store backend")
}
