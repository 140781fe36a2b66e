package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/triobank/ledger/internal/domain"
)

// OutboxEmitter writes outbound events inside the caller's transaction.
type OutboxEmitter struct {
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    MetricsRecorder
}

// NewOutboxEmitter creates a new OutboxEmitter.
func NewOutboxEmitter(outboxRepo OutboxRepository, idGen IDGenerator) *OutboxEmitter {
	return &OutboxEmitter{
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    nopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (e *OutboxEmitter) WithMetrics(m MetricsRecorder) *OutboxEmitter {
	e.metrics = m
	return e
}

// Emit serializes payload and stores it as an unpublished event.
func (e *OutboxEmitter) Emit(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload any, now time.Time) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	event := &domain.OutboxEvent{
		ID:            e.idGen.Generate(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
		CreatedAt:     now,
	}

	if err := e.outboxRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("store %s event: %w", eventType, err)
	}

	e.metrics.OutboxEventEmitted(eventType)

	return nil
}

// EmitBalanceUpdates writes one BalanceUpdated event per change, in the given order.
func (e *OutboxEmitter) EmitBalanceUpdates(ctx context.Context, tx Transaction, changes []domain.BalanceChange, now time.Time) error {
	for _, c := range changes {
		err := e.Emit(ctx, tx, domain.AggregateTypeAccountBalance, c.AccountID,
			domain.EventTypeBalanceUpdated, domain.NewBalanceUpdatedEvent(c), now)
		if err != nil {
			return err
		}
	}
	return nil
}
