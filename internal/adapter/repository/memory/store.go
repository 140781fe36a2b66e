// Package memory keeps the ledger in process memory with the same locking
// and commit behaviour as the Postgres adapter.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("memory: transaction already finished")
	// ErrForeignTx is returned when a transaction from another adapter is passed in.
	ErrForeignTx = errors.New("memory: not a memory transaction")
	// ErrRowNotLocked is returned when a row is written without holding its lock.
	ErrRowNotLocked = errors.New("memory: row not locked by transaction")
)

// Store holds committed ledger state.
type Store struct {
	transactions map[string]*domain.LedgerTransaction
	entriesByTxn map[string][]*domain.LedgerEntry
	byAccount    map[string][]*domain.LedgerEntry
	balances     map[string]*domain.AccountBalance
	pending      map[string]struct{}
	locks        *lockTable
	outbox       []*domain.OutboxEvent
	mu           sync.RWMutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]*domain.LedgerTransaction),
		entriesByTxn: make(map[string][]*domain.LedgerEntry),
		byAccount:    make(map[string][]*domain.LedgerEntry),
		balances:     make(map[string]*domain.AccountBalance),
		pending:      make(map[string]struct{}),
		locks:        newLockTable(),
	}
}

type lockTable struct {
	slots map[string]chan struct{}
	mu    sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{slots: make(map[string]chan struct{})}
}

func (l *lockTable) acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lockTable) release(key string) {
	l.mu.Lock()
	slot := l.slots[key]
	l.mu.Unlock()
	<-slot
}

type reversalMark struct {
	at time.Time
	by string
}

// Tx stages writes until Commit and holds row locks until it finishes.
type Tx struct {
	store        *Store
	held         map[string]struct{}
	reversals    map[string]reversalMark
	balances     map[string]*domain.AccountBalance
	reserved     []string
	transactions []*domain.LedgerTransaction
	entries      []*domain.LedgerEntry
	outbox       []*domain.OutboxEvent
	done         bool
}

// Commit applies the staged writes atomically and releases the locks.
func (tx *Tx) Commit(_ context.Context) error {
	if tx.done {
		return ErrTxDone
	}

	s := tx.store
	s.mu.Lock()
	for _, t := range tx.transactions {
		s.transactions[t.ID] = t
	}
	for id, mark := range tx.reversals {
		if t, ok := s.transactions[id]; ok {
			by, at := mark.by, mark.at
			t.Status = domain.TransactionStatusReversed
			t.ReversedByTransactionID = &by
			t.ReversedAt = &at
		}
	}
	for _, e := range tx.entries {
		s.entriesByTxn[e.TransactionID] = append(s.entriesByTxn[e.TransactionID], e)
		s.byAccount[e.AccountID] = append(s.byAccount[e.AccountID], e)
	}
	for id, b := range tx.balances {
		s.balances[id] = b
	}
	s.outbox = append(s.outbox, tx.outbox...)
	for _, id := range tx.reserved {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	tx.finish()
	return nil
}

// Rollback drops the staged writes. It is a no-op after Commit.
func (tx *Tx) Rollback(_ context.Context) error {
	if tx.done {
		return nil
	}

	tx.store.mu.Lock()
	for _, id := range tx.reserved {
		delete(tx.store.pending, id)
	}
	tx.store.mu.Unlock()

	tx.finish()
	return nil
}

func (tx *Tx) finish() {
	tx.done = true
	for key := range tx.held {
		tx.store.locks.release(key)
	}
	tx.held = nil
}

func (tx *Tx) lock(ctx context.Context, key string) error {
	if tx.done {
		return ErrTxDone
	}
	if _, ok := tx.held[key]; ok {
		return nil
	}
	if err := tx.store.locks.acquire(ctx, key); err != nil {
		return err
	}
	tx.held[key] = struct{}{}
	return nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTx
	}
	if mtx.done {
		return nil, ErrTxDone
	}
	return mtx, nil
}

// TxManager begins memory transactions.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(_ context.Context) (usecase.Transaction, error) {
	return &Tx{
		store:     m.store,
		held:      make(map[string]struct{}),
		reversals: make(map[string]reversalMark),
		balances:  make(map[string]*domain.AccountBalance),
	}, nil
}

func transactionKey(id string) string { return "txn:" + id }
func balanceKey(id string) string     { return "bal:" + id }

func cloneTransaction(t *domain.LedgerTransaction) *domain.LedgerTransaction {
	c := *t
	c.Entries = nil
	if t.OriginalTransactionID != nil {
		v := *t.OriginalTransactionID
		c.OriginalTransactionID = &v
	}
	if t.ReversedByTransactionID != nil {
		v := *t.ReversedByTransactionID
		c.ReversedByTransactionID = &v
	}
	if t.ReversedAt != nil {
		v := *t.ReversedAt
		c.ReversedAt = &v
	}
	return &c
}

func cloneEntry(e *domain.LedgerEntry) *domain.LedgerEntry {
	c := *e
	return &c
}

func cloneBalance(b *domain.AccountBalance) *domain.AccountBalance {
	c := *b
	if b.FrozenAt != nil {
		v := *b.FrozenAt
		c.FrozenAt = &v
	}
	return &c
}

func cloneEvent(e *domain.OutboxEvent) *domain.OutboxEvent {
	c := *e
	c.Payload = append([]byte(nil), e.Payload...)
	if e.PublishedAt != nil {
		v := *e.PublishedAt
		c.PublishedAt = &v
	}
	return &c
}
