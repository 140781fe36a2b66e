package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a journal transaction.
type TransactionStatus string

const (
	TransactionStatusPosted   TransactionStatus = "POSTED"
	TransactionStatusReversed TransactionStatus = "REVERSED"
)

// ReversalPrefix is prepended to descriptions of reversal transactions and entries.
const ReversalPrefix = "Reversal: "

// LedgerTransaction is a journal header. Only Status, ReversedByTransactionID
// and ReversedAt ever change, and only once.
type LedgerTransaction struct {
	CreatedAt               time.Time
	PostingDate             time.Time
	ValueDate               time.Time
	ReversedAt              *time.Time
	OriginalTransactionID   *string
	ReversedByTransactionID *string
	ID                      string
	Type                    string
	Currency                string
	Status                  TransactionStatus
	Description             string
	InitiatorID             string
	ReferenceNumber         string
	FromAccountID           string
	ToAccountID             string
	TotalAmount             decimal.Decimal
	Entries                 []*LedgerEntry
	IsReversal              bool
}

// IsReversed reports whether the transaction has been compensated.
func (t *LedgerTransaction) IsReversed() bool {
	return t.Status == TransactionStatusReversed
}

// MarkReversed moves POSTED to REVERSED.
func (t *LedgerTransaction) MarkReversed(reversalID string, at time.Time) error {
	if t.IsReversed() {
		return ErrTransactionAlreadyReversed
	}

	t.Status = TransactionStatusReversed
	t.ReversedByTransactionID = &reversalID
	t.ReversedAt = &at

	return nil
}

// SortedEntries returns the entries ordered by sequence without touching t.Entries.
func (t *LedgerTransaction) SortedEntries() []*LedgerEntry {
	return SortEntriesBySequence(t.Entries)
}

// BuildReversal mirrors t: same sequences, accounts and amounts with flipped
// entry types. The caller persists the result.
func (t *LedgerTransaction) BuildReversal(reversalID, reason string, entryIDs func() string, now time.Time) *LedgerTransaction {
	today := DateOnly(now)
	originalID := t.ID

	reversal := &LedgerTransaction{
		ID:                    reversalID,
		Type:                  t.Type,
		PostingDate:           today,
		ValueDate:             today,
		TotalAmount:           t.TotalAmount,
		Currency:              t.Currency,
		Status:                TransactionStatusPosted,
		Description:           ReversalPrefix + reason,
		InitiatorID:           t.InitiatorID,
		ReferenceNumber:       t.ReferenceNumber,
		FromAccountID:         t.ToAccountID,
		ToAccountID:           t.FromAccountID,
		IsReversal:            true,
		OriginalTransactionID: &originalID,
		CreatedAt:             now,
	}

	for _, original := range t.SortedEntries() {
		reversal.Entries = append(reversal.Entries, &LedgerEntry{
			ID:              entryIDs(),
			TransactionID:   reversalID,
			TransactionType: t.Type,
			Sequence:        original.Sequence,
			AccountID:       original.AccountID,
			EntryType:       original.EntryType.Opposite(),
			Amount:          original.Amount,
			Currency:        original.Currency,
			PostingDate:     today,
			ValueDate:       today,
			Description:     ReversalPrefix + original.Description,
			ReferenceNumber: original.ReferenceNumber,
			CreatedAt:       now,
		})
	}

	return reversal
}

// ValidationEntries projects the entries for the double-entry validator in sequence order.
func (t *LedgerTransaction) ValidationEntries() []ValidationEntry {
	sorted := t.SortedEntries()
	out := make([]ValidationEntry, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, e.ToValidationEntry())
	}
	return out
}

// SortEntriesBySequence returns a copy of entries ordered by sequence.
func SortEntriesBySequence(entries []*LedgerEntry) []*LedgerEntry {
	sorted := make([]*LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sequence < sorted[j].Sequence
	})
	return sorted
}
