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

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/triobank/ledger/internal/adapter/http"
	"github.com/triobank/ledger/internal/adapter/http/handler"
	"github.com/triobank/ledger/internal/adapter/http/middleware"
	"github.com/triobank/ledger/internal/adapter/queue"
	redisRepo "github.com/triobank/ledger/internal/adapter/repository/redis"
	"github.com/triobank/ledger/internal/infrastructure/config"
	"github.com/triobank/ledger/internal/infrastructure/eventpublisher"
	"github.com/triobank/ledger/internal/infrastructure/logger"
	"github.com/triobank/ledger/internal/infrastructure/metrics"
	"github.com/triobank/ledger/internal/infrastructure/redis"
	"github.com/triobank/ledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log.Logger)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, lg zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer store.close()

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	lg.Info().Msg("connected to redis")

	redisOpt, err := redis.QueueConnOpt(cfg.RedisURL)
	if err != nil {
		return err
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Use cases
	emitter := usecase.NewOutboxEmitter(store.outbox, store.eventIDs).WithMetrics(m)
	ledgerUC := usecase.NewLedgerUseCase(
		store.txManager,
		store.transactions,
		store.entries,
		store.balances,
		emitter,
		store.entryIDs,
	).
		WithRetrier(store.retrier).
		WithAppliedMarker(redisRepo.NewAppliedMarker(redisClient, cfg.AppliedMarkerTTL)).
		WithMetrics(m).
		WithLogger(lg)
	balanceUC := usecase.NewBalanceUseCase(store.balances, store.entries)
	reconciliationUC := usecase.NewReconciliationUseCase(store.balances, store.entries, store.ledger).
		WithMetrics(m).
		WithLogger(lg)

	// Queue workers
	mux := asynq.NewServeMux()
	queue.NewConsumer(ledgerUC, lg).WithMetrics(m).Register(mux)
	worker := queue.NewServer(redisOpt, queue.ServerConfig{
		Queue:       cfg.QueueName,
		Concurrency: cfg.WorkerConcurrency,
	}, lg)
	if err := worker.Start(mux); err != nil {
		return fmt.Errorf("start queue worker: %w", err)
	}
	defer worker.Shutdown()
	lg.Info().
		Str("queue", cfg.QueueName).
		Int("concurrency", cfg.WorkerConcurrency).
		Msg("queue worker started")

	// Optional outbox relay
	if cfg.OutboxRelayEnabled {
		relayLogger := lg.With().Str("component", "outbox_relay").Logger()

		var sink eventpublisher.Publisher = eventpublisher.NewRedisStreamPublisher(redisClient, cfg.OutboxStreamPrefix)
		if cfg.OutboxRelaySink == config.RelaySinkLog {
			sink = eventpublisher.NewLogPublisher(relayLogger)
		}

		relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: store.outbox,
			Publisher:  sink,
			Metrics:    m,
			Logger:     relayLogger,
			BatchSize:  cfg.OutboxRelayBatchSize,
			Interval:   cfg.OutboxRelayInterval,
		})
		go func() {
			if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error().Err(err).Msg("outbox relay stopped")
			}
		}()
	}

	// HTTP read API
	checks := store.healthChecks()
	checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }

	limiter := middleware.NewRateLimiter(cfg.HTTPRateLimitRPS, cfg.HTTPRateLimitBurst)
	go limiter.Run(ctx, 10*time.Minute)

	server := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: httpAdapter.NewRouter(httpAdapter.RouterConfig{
			BalanceHandler:     handler.NewBalanceHandler(balanceUC),
			TransactionHandler: handler.NewTransactionHandler(ledgerUC),
			LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
			EventHandler:       handler.NewEventHandler(usecase.NewEventUseCase(store.outbox)),
			HealthHandler:      handler.NewHealthHandler(checks),
			MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Metrics:            m,
			RateLimiter:        limiter,
			Logger:             lg,
			AllowedOrigins:     cfg.CORSAllowedOrigins,
		}),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		lg.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	lg.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
