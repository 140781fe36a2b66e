package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	store *Store
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{store: store}
}

// CreateIfAbsent stages a new row unless one exists.
func (r *BalanceRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) (bool, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return false, err
	}
	if err := mtx.lock(ctx, balanceKey(balance.AccountID)); err != nil {
		return false, err
	}

	if _, ok := mtx.balances[balance.AccountID]; ok {
		return false, nil
	}
	if _, err := r.GetByAccountID(ctx, balance.AccountID); err == nil {
		return false, nil
	}

	mtx.balances[balance.AccountID] = cloneBalance(balance)
	return true, nil
}

// GetByAccountID returns the committed row.
func (r *BalanceRepository) GetByAccountID(_ context.Context, accountID string) (*domain.AccountBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.balances[accountID]
	if !ok {
		return nil, domain.ErrBalanceNotFound
	}
	return cloneBalance(b), nil
}

// GetForUpdate locks an existing row until tx finishes.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.AccountBalance, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := mtx.lock(ctx, balanceKey(accountID)); err != nil {
		return nil, err
	}

	if b, ok := mtx.balances[accountID]; ok {
		return cloneBalance(b), nil
	}

	b, err := r.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	mtx.balances[accountID] = cloneBalance(b)
	return b, nil
}

// GetOrCreateForUpdate locks the row, staging a zero balance when missing.
func (r *BalanceRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, accountID, currency string, now time.Time) (*domain.AccountBalance, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	b, err := r.GetForUpdate(ctx, tx, accountID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, domain.ErrBalanceNotFound) {
		return nil, err
	}

	b = domain.NewAccountBalance(accountID, currency, now)
	mtx.balances[accountID] = cloneBalance(b)
	return b, nil
}

// Update writes a locked row back if its version is unchanged.
func (r *BalanceRepository) Update(_ context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	current, ok := mtx.balances[balance.AccountID]
	if !ok {
		return ErrRowNotLocked
	}
	if current.Version != balance.Version {
		return domain.ErrConcurrencyConflict
	}

	balance.Version++
	mtx.balances[balance.AccountID] = cloneBalance(balance)
	return nil
}

// List returns committed rows ordered by account id.
func (r *BalanceRepository) List(_ context.Context, limit, offset int) ([]*domain.AccountBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]string, 0, len(r.store.balances))
	for id := range r.store.balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return []*domain.AccountBalance{}, nil
	}
	end := min(offset+limit, len(ids))

	out := make([]*domain.AccountBalance, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, cloneBalance(r.store.balances[id]))
	}
	return out, nil
}
