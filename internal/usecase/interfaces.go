package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
)

// TransactionRepository defines data access for journal headers.
type TransactionRepository interface {
	// Create returns domain.ErrDuplicateTransaction when the id is taken.
	Create(ctx context.Context, tx Transaction, txn *domain.LedgerTransaction) error
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.LedgerTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LedgerTransaction, error)
	MarkReversed(ctx context.Context, tx Transaction, id, reversedBy string, reversedAt time.Time) error
}

// EntryRepository defines data access for journal lines.
type EntryRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, entries []*domain.LedgerEntry) error
	GetByTransaction(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error)
	// GetByTransactionInTx reads the entries through tx, staged writes included.
	GetByTransactionInTx(ctx context.Context, tx Transaction, transactionID string) ([]*domain.LedgerEntry, error)
	// SumByAccount returns the signed journal sum, optionally up to and including a posting date.
	SumByAccount(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error)
	// SumBefore returns the signed sum of entries strictly before cursor.
	SumBefore(ctx context.Context, accountID string, cursor domain.EntryCursor) (decimal.Decimal, error)
	Search(ctx context.Context, filter domain.StatementFilter) ([]*domain.LedgerEntry, int64, error)
}

// BalanceRepository defines data access for the balance projection.
type BalanceRepository interface {
	// CreateIfAbsent reports whether a new row was inserted.
	CreateIfAbsent(ctx context.Context, tx Transaction, balance *domain.AccountBalance) (bool, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.AccountBalance, error)
	GetForUpdate(ctx context.Context, tx Transaction, accountID string) (*domain.AccountBalance, error)
	// GetOrCreateForUpdate locks the row, inserting a zero balance first when missing.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, accountID, currency string, now time.Time) (*domain.AccountBalance, error)
	// Update persists the row if its version is unchanged and increments balance.Version.
	Update(ctx context.Context, tx Transaction, balance *domain.AccountBalance) error
	List(ctx context.Context, limit, offset int) ([]*domain.AccountBalance, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (domain.LedgerTotals, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// AppliedMarker is a fast-path cache of command keys that already committed.
// The journal stays the source of truth.
type AppliedMarker interface {
	IsApplied(ctx context.Context, key string) (bool, error)
	MarkApplied(ctx context.Context, key string) error
}

// MetricsRecorder receives ledger counters.
type MetricsRecorder interface {
	TransactionRecorded(transactionType string)
	TransactionReversed()
	IdempotentSkip(operation string)
	BalanceUpdated()
	OutboxEventEmitted(eventType string)
	ReconciliationMismatch()
}

type nopMetrics struct{}

func (nopMetrics) TransactionRecorded(string) {}
func (nopMetrics) TransactionReversed()       {}
func (nopMetrics) IdempotentSkip(string)      {}
func (nopMetrics) BalanceUpdated()            {}
func (nopMetrics) OutboxEventEmitted(string)  {}
func (nopMetrics) ReconciliationMismatch()    {}
