package usecase

import (
	"context"
	"fmt"

	"github.com/triobank/ledger/internal/domain"
)

// EventUseCase reads the outbox history of one aggregate.
type EventUseCase struct {
	outboxRepo OutboxRepository
}

// NewEventUseCase creates a new EventUseCase.
func NewEventUseCase(outboxRepo OutboxRepository) *EventUseCase {
	return &EventUseCase{outboxRepo: outboxRepo}
}

// ListEvents returns one page of events emitted for the aggregate, oldest first.
func (uc *EventUseCase) ListEvents(ctx context.Context, aggregateType, aggregateID string, page, size int) ([]*domain.OutboxEvent, error) {
	switch aggregateType {
	case domain.AggregateTypeAccountBalance, domain.AggregateTypeTransaction:
	default:
		return nil, fmt.Errorf("%w: unknown aggregate type %q", domain.ErrValidation, aggregateType)
	}
	if aggregateID == "" {
		return nil, fmt.Errorf("%w: aggregate id is required", domain.ErrValidation)
	}

	page, size = domain.ValidatePagination(page, size)

	return uc.outboxRepo.GetByAggregate(ctx, aggregateType, aggregateID, size, page*size)
}
