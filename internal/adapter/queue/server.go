package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// ServerConfig holds worker settings.
type ServerConfig struct {
	Queue       string
	Concurrency int
}

// NewServer creates an asynq worker server for the ledger queue.
func NewServer(redis asynq.RedisConnOpt, cfg ServerConfig, logger zerolog.Logger) *asynq.Server {
	return asynq.NewServer(redis, asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          map[string]int{cfg.Queue: 1},
		RetryDelayFunc:  retryDelay,
		ErrorHandler:    errorHandler(logger),
		Logger:          asynqLogger{logger: logger},
		ShutdownTimeout: 10 * time.Second,
	})
}

// retryDelay backs off exponentially from one second, capped at five minutes.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n > 8 {
		n = 8
	}
	return min(time.Second<<n, 5*time.Minute)
}
