package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

func TestEventUseCase_ListEvents(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, id := range []string{"TXN-1", "TXN-2", "TXN-3"} {
		_, err := h.uc.RecordTransaction(ctx, transfer(id, "ACC-A", "ACC-B", "5"))
		require.NoError(t, err)
	}

	uc := usecase.NewEventUseCase(h.outbox)

	events, err := uc.ListEvents(ctx, domain.AggregateTypeAccountBalance, "ACC-A", 0, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	first := decodePayload[domain.BalanceUpdatedEvent](t, events[0])
	second := decodePayload[domain.BalanceUpdatedEvent](t, events[1])
	assert.Equal(t, "-5", first.NewBalance)
	assert.Equal(t, "-10", second.NewBalance)

	events, err = uc.ListEvents(ctx, domain.AggregateTypeAccountBalance, "ACC-A", 1, 2)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "-15", decodePayload[domain.BalanceUpdatedEvent](t, events[0]).NewBalance)

	events, err = uc.ListEvents(ctx, domain.AggregateTypeTransaction, "TXN-2", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeTransactionPosted, events[0].EventType)
}

func TestEventUseCase_ListEventsRejectsBadInput(t *testing.T) {
	uc := usecase.NewEventUseCase(newHarness(t).outbox)

	_, err := uc.ListEvents(context.Background(), "Card", "C-1", 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.ListEvents(context.Background(), domain.AggregateTypeTransaction, "", 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
