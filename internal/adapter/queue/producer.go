package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Producer enqueues ledger commands.
type Producer struct {
	client   *asynq.Client
	queue    string
	maxRetry int
	now      func() time.Time
}

// NewProducer creates a new Producer.
func NewProducer(client *asynq.Client, queue string, maxRetry int) *Producer {
	return &Producer{
		client:   client,
		queue:    queue,
		maxRetry: maxRetry,
		now:      time.Now,
	}
}

// EnqueueTransactionStarted enqueues a record command.
func (p *Producer) EnqueueTransactionStarted(ctx context.Context, payload TransactionStartedPayload) error {
	return enqueue(ctx, p, TypeTransactionStarted, "Transaction", payload.TransactionID, payload)
}

// EnqueueCompensationRequired enqueues a reverse command.
func (p *Producer) EnqueueCompensationRequired(ctx context.Context, payload CompensationRequiredPayload) error {
	return enqueue(ctx, p, TypeCompensationRequired, "Transaction", payload.TransactionID, payload)
}

// EnqueueAccountCreated enqueues an initial balance command.
func (p *Producer) EnqueueAccountCreated(ctx context.Context, payload AccountCreatedPayload) error {
	return enqueue(ctx, p, TypeAccountCreated, "Account", payload.AccountID, payload)
}

// EnqueueAccountDeleted enqueues a freeze command.
func (p *Producer) EnqueueAccountDeleted(ctx context.Context, payload AccountDeletedPayload) error {
	return enqueue(ctx, p, TypeAccountDeleted, "Account", payload.AccountID, payload)
}

// enqueue wraps payload in an envelope. The task id is derived from the command
// so a second enqueue of a still-retained command is dropped by asynq.
func enqueue[T any](ctx context.Context, p *Producer, taskType, aggregateType, aggregateID string, payload T) error {
	if aggregateID == "" {
		return fmt.Errorf("enqueue %s: missing aggregate id", taskType)
	}

	data, err := json.Marshal(Envelope[T]{
		EventID:       uuid.NewString(),
		EventType:     taskType,
		EventVersion:  "v1",
		Timestamp:     p.now().UTC(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", taskType, err)
	}

	task := asynq.NewTask(taskType, data,
		asynq.TaskID(taskType+":"+aggregateID),
		asynq.Queue(p.queue),
		asynq.MaxRetry(p.maxRetry),
	)

	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("enqueue %s %s: %w", taskType, aggregateID, err)
	}

	return nil
}
