package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
)

// BalanceProjector applies posted entries to the cached balances.
type BalanceProjector struct {
	balanceRepo BalanceRepository
	metrics     MetricsRecorder
}

// NewBalanceProjector creates a new BalanceProjector.
func NewBalanceProjector(balanceRepo BalanceRepository) *BalanceProjector {
	return &BalanceProjector{
		balanceRepo: balanceRepo,
		metrics:     nopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (p *BalanceProjector) WithMetrics(m MetricsRecorder) *BalanceProjector {
	p.metrics = m
	return p
}

type accountDelta struct {
	currency    string
	lastEntryID string
	delta       decimal.Decimal
}

// Apply folds entries into one delta per account and updates each row once,
// locking rows in ascending account id order. Changes come back in that order.
func (p *BalanceProjector) Apply(ctx context.Context, tx Transaction, entries []*domain.LedgerEntry, now time.Time) ([]domain.BalanceChange, error) {
	deltas := make(map[string]*accountDelta)
	for _, e := range domain.SortEntriesBySequence(entries) {
		d, ok := deltas[e.AccountID]
		if !ok {
			d = &accountDelta{currency: e.Currency, delta: decimal.Zero}
			deltas[e.AccountID] = d
		}
		d.delta = d.delta.Add(e.SignedAmount())
		d.lastEntryID = e.ID
	}

	// DEADLOCK PREVENTION: every writer locks accounts in the same order.
	accountIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	changes := make([]domain.BalanceChange, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		d := deltas[accountID]

		balance, err := p.balanceRepo.GetOrCreateForUpdate(ctx, tx, accountID, d.currency, now)
		if err != nil {
			return nil, fmt.Errorf("lock balance %s: %w", accountID, err)
		}

		if balance.Currency != d.currency {
			return nil, fmt.Errorf("%w: account %s holds %s, entry in %s",
				domain.ErrCurrencyMismatch, accountID, balance.Currency, d.currency)
		}

		previous := balance.Balance
		if err := balance.UpdateBalance(d.delta, d.lastEntryID, now); err != nil {
			return nil, fmt.Errorf("account %s: %w", accountID, err)
		}

		if err := p.balanceRepo.Update(ctx, tx, balance); err != nil {
			return nil, fmt.Errorf("update balance %s: %w", accountID, err)
		}

		p.metrics.BalanceUpdated()

		changes = append(changes, domain.BalanceChange{
			AccountID:       accountID,
			Currency:        balance.Currency,
			PreviousBalance: previous,
			NewBalance:      balance.Balance,
			Delta:           d.delta,
			UpdatedAt:       now,
			Version:         balance.Version,
		})
	}

	return changes, nil
}
