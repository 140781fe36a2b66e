package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/triobank/ledger/internal/adapter/repository/memory"
	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type harness struct {
	store    *memory.Store
	txns     *memory.TransactionRepository
	entries  *memory.EntryRepository
	balances *memory.BalanceRepository
	outbox   *memory.OutboxRepository
	ledger   *memory.LedgerRepository
	uc       *usecase.LedgerUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{
		store:    store,
		txns:     memory.NewTransactionRepository(store),
		entries:  memory.NewEntryRepository(store),
		balances: memory.NewBalanceRepository(store),
		outbox:   memory.NewOutboxRepository(store),
		ledger:   memory.NewLedgerRepository(store),
	}
	h.uc = usecase.NewLedgerUseCase(
		memory.NewTxManager(store),
		h.txns,
		h.entries,
		h.balances,
		usecase.NewOutboxEmitter(h.outbox, uuidGenerator{}),
		uuidGenerator{},
	).WithClock(func() time.Time { return fixedNow })

	return h
}

func transfer(id, from, to, amount string) usecase.RecordTransactionInput {
	return usecase.RecordTransactionInput{
		TransactionID:   id,
		TransactionType: "TRANSFER",
		Currency:        "TRY",
		Description:     "transfer " + id,
		FromAccountID:   from,
		ToAccountID:     to,
		Entries: []usecase.EntryInput{
			{Sequence: 1, AccountID: from, EntryType: "DEBIT", Amount: decimal.RequireFromString(amount), Currency: "TRY", Description: "out"},
			{Sequence: 2, AccountID: to, EntryType: "CREDIT", Amount: decimal.RequireFromString(amount), Currency: "TRY", Description: "in"},
		},
	}
}

func (h *harness) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()

	b, err := h.balances.GetByAccountID(context.Background(), accountID)
	require.NoError(t, err)
	return b.Balance
}

func (h *harness) unpublished(t *testing.T) []*domain.OutboxEvent {
	t.Helper()

	events, err := h.outbox.GetUnpublished(context.Background(), 1000)
	require.NoError(t, err)
	return events
}

func decodePayload[T any](t *testing.T, e *domain.OutboxEvent) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(e.Payload, &v))
	return v
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
