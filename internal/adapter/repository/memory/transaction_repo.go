package memory

import (
	"context"
	"time"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create reserves the id immediately so a concurrent insert of the same id fails.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Transaction, txn *domain.LedgerTransaction) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.transactions[txn.ID]; ok {
		return domain.ErrDuplicateTransaction
	}
	if _, ok := r.store.pending[txn.ID]; ok {
		return domain.ErrDuplicateTransaction
	}

	r.store.pending[txn.ID] = struct{}{}
	mtx.reserved = append(mtx.reserved, txn.ID)
	mtx.transactions = append(mtx.transactions, cloneTransaction(txn))

	return nil
}

// Exists reports whether a committed transaction has the id.
func (r *TransactionRepository) Exists(_ context.Context, id string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.transactions[id]
	return ok, nil
}

// GetByID returns the committed header without entries.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.LedgerTransaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

// GetByIDForUpdate locks the header until tx finishes.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerTransaction, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mtx.lock(ctx, transactionKey(id)); err != nil {
		return nil, err
	}

	txn, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mark, ok := mtx.reversals[id]; ok {
		if err := txn.MarkReversed(mark.by, mark.at); err != nil {
			return nil, err
		}
	}
	return txn, nil
}

// MarkReversed moves a locked POSTED header to REVERSED.
func (r *TransactionRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id, reversedBy string, reversedAt time.Time) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, ok := mtx.held[transactionKey(id)]; !ok {
		return ErrRowNotLocked
	}

	txn, err := r.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if txn.IsReversed() {
		return domain.ErrTransactionAlreadyReversed
	}

	mtx.reversals[id] = reversalMark{by: reversedBy, at: reversedAt}
	return nil
}
