package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// CreateBatch stages entries for commit.
func (r *EntryRepository) CreateBatch(_ context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		mtx.entries = append(mtx.entries, cloneEntry(e))
	}
	return nil
}

// GetByTransaction returns committed entries ordered by sequence.
func (r *EntryRepository) GetByTransaction(_ context.Context, transactionID string) ([]*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.entriesByTxn[transactionID]
	out := make([]*domain.LedgerEntry, 0, len(stored))
	for _, e := range stored {
		out = append(out, cloneEntry(e))
	}
	return domain.SortEntriesBySequence(out), nil
}

// GetByTransactionInTx returns committed entries plus those staged in tx.
func (r *EntryRepository) GetByTransactionInTx(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.LedgerEntry, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	out, err := r.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	for _, e := range mtx.entries {
		if e.TransactionID == transactionID {
			out = append(out, cloneEntry(e))
		}
	}
	return domain.SortEntriesBySequence(out), nil
}

// SumByAccount returns the signed sum of the account's entries.
func (r *EntryRepository) SumByAccount(_ context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range r.store.byAccount[accountID] {
		if upTo != nil && e.PostingDate.After(*upTo) {
			continue
		}
		sum = sum.Add(e.SignedAmount())
	}
	return sum, nil
}

// SumBefore returns the signed sum of entries ordered strictly before cursor.
func (r *EntryRepository) SumBefore(_ context.Context, accountID string, cursor domain.EntryCursor) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range r.store.byAccount[accountID] {
		if e.Cursor().Before(cursor) {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

// Search returns one page of matching entries, newest first, and the match count.
func (r *EntryRepository) Search(_ context.Context, filter domain.StatementFilter) ([]*domain.LedgerEntry, int64, error) {
	r.store.mu.RLock()
	var matched []*domain.LedgerEntry
	for _, e := range r.store.byAccount[filter.AccountID] {
		if matches(e, filter) {
			matched = append(matched, cloneEntry(e))
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[j].Cursor().Before(matched[i].Cursor())
	})

	total := int64(len(matched))
	start := filter.Page * filter.Size
	if start >= len(matched) {
		return []*domain.LedgerEntry{}, total, nil
	}
	end := min(start+filter.Size, len(matched))

	return matched[start:end], total, nil
}

func matches(e *domain.LedgerEntry, f domain.StatementFilter) bool {
	if f.StartDate != nil && e.PostingDate.Before(domain.DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && e.PostingDate.After(domain.DateOnly(*f.EndDate)) {
		return false
	}
	if f.EntryType != nil && e.EntryType != *f.EntryType {
		return false
	}
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(e.Description), kw) &&
			!strings.Contains(strings.ToLower(e.ReferenceNumber), kw) {
			return false
		}
	}
	return true
}
