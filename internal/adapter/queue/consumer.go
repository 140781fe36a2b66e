package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

// LedgerCommands is the write side the consumer drives.
type LedgerCommands interface {
	RecordTransaction(ctx context.Context, input usecase.RecordTransactionInput) (usecase.Outcome, error)
	ReverseTransaction(ctx context.Context, input usecase.ReverseTransactionInput) (usecase.Outcome, error)
	CreateInitialBalance(ctx context.Context, input usecase.CreateInitialBalanceInput) (usecase.Outcome, error)
	FreezeBalance(ctx context.Context, accountID string) (usecase.Outcome, error)
}

// TaskMetrics receives task outcomes.
type TaskMetrics interface {
	TaskProcessed(taskType, status string, took time.Duration)
}

type nopTaskMetrics struct{}

func (nopTaskMetrics) TaskProcessed(string, string, time.Duration) {}

// Task statuses reported to TaskMetrics.
const (
	StatusApplied        = "applied"
	StatusAlreadyApplied = "already_applied"
	StatusRetry          = "retry"
	StatusRejected       = "rejected"
)

// Consumer handles ledger command tasks.
type Consumer struct {
	ledger  LedgerCommands
	metrics TaskMetrics
	logger  zerolog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(ledger LedgerCommands, logger zerolog.Logger) *Consumer {
	return &Consumer{
		ledger:  ledger,
		metrics: nopTaskMetrics{},
		logger:  logger,
	}
}

// WithMetrics sets the metrics recorder.
func (c *Consumer) WithMetrics(m TaskMetrics) *Consumer {
	c.metrics = m
	return c
}

// Register binds every task type to its handler.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeTransactionStarted, c.HandleTransactionStarted)
	mux.HandleFunc(TypeCompensationRequired, c.HandleCompensationRequired)
	mux.HandleFunc(TypeAccountCreated, c.HandleAccountCreated)
	mux.HandleFunc(TypeAccountDeleted, c.HandleAccountDeleted)
}

// HandleTransactionStarted posts a transaction.
func (c *Consumer) HandleTransactionStarted(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var env Envelope[TransactionStartedPayload]
	if err := decode(t, &env); err != nil {
		return c.finish(ctx, t, "", 0, err, start)
	}

	outcome, err := c.ledger.RecordTransaction(ctx, env.Payload.Input())
	return c.finish(ctx, t, env.Payload.TransactionID, outcome, err, start)
}

// HandleCompensationRequired reverses a transaction. A reversal that arrives
// before its transaction fails with ErrTransactionNotFound and is retried.
func (c *Consumer) HandleCompensationRequired(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var env Envelope[CompensationRequiredPayload]
	if err := decode(t, &env); err != nil {
		return c.finish(ctx, t, "", 0, err, start)
	}

	outcome, err := c.ledger.ReverseTransaction(ctx, env.Payload.Input())
	return c.finish(ctx, t, env.Payload.TransactionID, outcome, err, start)
}

// HandleAccountCreated opens a zero balance.
func (c *Consumer) HandleAccountCreated(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var env Envelope[AccountCreatedPayload]
	if err := decode(t, &env); err != nil {
		return c.finish(ctx, t, "", 0, err, start)
	}

	outcome, err := c.ledger.CreateInitialBalance(ctx, env.Payload.Input())
	return c.finish(ctx, t, env.Payload.AccountID, outcome, err, start)
}

// HandleAccountDeleted freezes a zero balance.
func (c *Consumer) HandleAccountDeleted(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var env Envelope[AccountDeletedPayload]
	if err := decode(t, &env); err != nil {
		return c.finish(ctx, t, "", 0, err, start)
	}
	if env.Payload.AccountID == "" {
		return c.finish(ctx, t, "", 0, fmt.Errorf("%w: accountId is required", domain.ErrValidation), start)
	}

	outcome, err := c.ledger.FreezeBalance(ctx, env.Payload.AccountID)
	return c.finish(ctx, t, env.Payload.AccountID, outcome, err, start)
}

// finish acknowledges success, archives permanent failures at once and leaves
// everything else to asynq's retry schedule.
func (c *Consumer) finish(ctx context.Context, t *asynq.Task, id string, outcome usecase.Outcome, err error, start time.Time) error {
	took := time.Since(start)
	retried, _ := asynq.GetRetryCount(ctx)

	if err == nil {
		status := StatusApplied
		if outcome == usecase.OutcomeAlreadyApplied {
			status = StatusAlreadyApplied
		}
		c.metrics.TaskProcessed(t.Type(), status, took)
		c.logger.Info().
			Str("task_type", t.Type()).
			Str("id", id).
			Str("outcome", outcome.String()).
			Dur("took", took).
			Msg("task processed")
		return nil
	}

	if domain.IsPermanent(err) {
		c.metrics.TaskProcessed(t.Type(), StatusRejected, took)
		c.logger.Error().
			Err(err).
			Str("task_type", t.Type()).
			Str("id", id).
			Int("retried", retried).
			Msg("task rejected, archiving")
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	c.metrics.TaskProcessed(t.Type(), StatusRetry, took)
	c.logger.Warn().
		Err(err).
		Str("task_type", t.Type()).
		Str("id", id).
		Int("retried", retried).
		Msg("task failed, will retry")
	return err
}

// decode rejects payloads that can never be processed.
func decode[T any](t *asynq.Task, env *Envelope[T]) error {
	if err := json.Unmarshal(t.Payload(), env); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrValidation, t.Type(), err)
	}
	return nil
}

// errorHandler logs tasks that asynq moved to the archive.
func errorHandler(logger zerolog.Logger) asynq.ErrorHandlerFunc {
	return func(ctx context.Context, t *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried < maxRetry && !errors.Is(err, asynq.SkipRetry) {
			return
		}

		taskID, _ := asynq.GetTaskID(ctx)
		logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("task_type", t.Type()).
			Int("retried", retried).
			Msg("task archived, manual intervention required")
	}
}
