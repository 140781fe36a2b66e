package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleTransaction() *LedgerTransaction {
	posting := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &LedgerTransaction{
		ID:            "TXN-1",
		Type:          "TRANSFER",
		PostingDate:   posting,
		ValueDate:     posting,
		TotalAmount:   decimal.NewFromInt(100),
		Currency:      "TRY",
		Status:        TransactionStatusPosted,
		FromAccountID: "ACC-A",
		ToAccountID:   "ACC-B",
		Entries: []*LedgerEntry{
			{ID: "E2", Sequence: 2, AccountID: "ACC-B", EntryType: EntryTypeCredit, Amount: decimal.NewFromInt(100), Currency: "TRY", Description: "in"},
			{ID: "E1", Sequence: 1, AccountID: "ACC-A", EntryType: EntryTypeDebit, Amount: decimal.NewFromInt(100), Currency: "TRY", Description: "out"},
		},
	}
}

func TestLedgerTransaction_BuildReversal(t *testing.T) {
	t.Parallel()

	original := sampleTransaction()
	now := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("R%d", n)
	}

	reversal := original.BuildReversal("TXN-1-REV", "downstream failure", ids, now)

	if !reversal.IsReversal || reversal.OriginalTransactionID == nil || *reversal.OriginalTransactionID != "TXN-1" {
		t.Fatalf("expected reversal linked to TXN-1, got %+v", reversal)
	}
	if reversal.Description != "Reversal: downstream failure" {
		t.Fatalf("unexpected description %q", reversal.Description)
	}
	if !reversal.PostingDate.Equal(DateOnly(now)) {
		t.Fatalf("expected posting date today, got %s", reversal.PostingDate)
	}
	if len(reversal.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(reversal.Entries))
	}

	first := reversal.Entries[0]
	if first.Sequence != 1 || first.AccountID != "ACC-A" || first.EntryType != EntryTypeCredit {
		t.Fatalf("unexpected first reversal entry %+v", first)
	}
	if first.Description != "Reversal: out" || first.TransactionID != "TXN-1-REV" {
		t.Fatalf("unexpected first reversal entry %+v", first)
	}
	if reversal.Entries[1].EntryType != EntryTypeDebit {
		t.Fatalf("expected second entry flipped to DEBIT")
	}

	if err := ValidateEntries(reversal.ValidationEntries(), "TRY"); err != nil {
		t.Fatalf("expected reversal to balance, got %v", err)
	}

	// Original entries are untouched.
	if original.Entries[0].EntryType != EntryTypeCredit {
		t.Fatal("original entries must not change")
	}
}

func TestLedgerTransaction_MarkReversed(t *testing.T) {
	t.Parallel()

	txn := sampleTransaction()
	now := time.Now()

	if err := txn.MarkReversed("TXN-1-REV", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !txn.IsReversed() || *txn.ReversedByTransactionID != "TXN-1-REV" {
		t.Fatalf("expected REVERSED status, got %+v", txn)
	}
	if err := txn.MarkReversed("TXN-1-REV-2", now); !errors.Is(err, ErrTransactionAlreadyReversed) {
		t.Fatalf("expected ErrTransactionAlreadyReversed, got %v", err)
	}
}

func TestLedgerEntry_SignedAmount(t *testing.T) {
	t.Parallel()

	credit := &LedgerEntry{EntryType: EntryTypeCredit, Amount: decimal.NewFromInt(5)}
	debit := &LedgerEntry{EntryType: EntryTypeDebit, Amount: decimal.NewFromInt(5)}

	if !credit.SignedAmount().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected +5, got %s", credit.SignedAmount())
	}
	if !debit.SignedAmount().Equal(decimal.NewFromInt(-5)) {
		t.Fatalf("expected -5, got %s", debit.SignedAmount())
	}
}

func TestParseEntryType(t *testing.T) {
	t.Parallel()

	if typ, err := ParseEntryType("CREDIT"); err != nil || typ != EntryTypeCredit {
		t.Fatalf("expected CREDIT, got %v %v", typ, err)
	}
	if _, err := ParseEntryType("credit"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEntryCursor_Before(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := day.Add(time.Hour)

	a := EntryCursor{PostingDate: day, CreatedAt: at, ID: "A"}
	b := EntryCursor{PostingDate: day, CreatedAt: at, ID: "B"}
	c := EntryCursor{PostingDate: day.AddDate(0, 0, 1), CreatedAt: day, ID: "0"}

	if !a.Before(b) || b.Before(a) {
		t.Fatal("expected id tie-break")
	}
	if !b.Before(c) {
		t.Fatal("expected posting date to dominate")
	}
}
