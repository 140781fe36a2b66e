package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency sums the whole journal and every cached balance.
func (r *LedgerRepository) CheckConsistency(_ context.Context) (domain.LedgerTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totals := domain.LedgerTotals{
		TotalDebits:   decimal.Zero,
		TotalCredits:  decimal.Zero,
		TotalBalances: decimal.Zero,
		JournalNet:    decimal.Zero,
	}

	for _, entries := range r.store.entriesByTxn {
		for _, e := range entries {
			switch e.EntryType {
			case domain.EntryTypeDebit:
				totals.TotalDebits = totals.TotalDebits.Add(e.Amount)
			case domain.EntryTypeCredit:
				totals.TotalCredits = totals.TotalCredits.Add(e.Amount)
			}
		}
	}
	totals.JournalNet = totals.TotalCredits.Sub(totals.TotalDebits)

	for _, b := range r.store.balances {
		totals.TotalBalances = totals.TotalBalances.Add(b.Balance)
	}

	return totals, nil
}
