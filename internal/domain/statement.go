package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementFilter selects journal entries of one account.
type StatementFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	EntryType *EntryType
	AccountID string
	Keyword   string
	Page      int
	Size      int
}

// Filtered reports whether the filter drops entries inside the date window.
func (f StatementFilter) Filtered() bool {
	return f.EntryType != nil || f.Keyword != ""
}

// StatementLine is an entry with an optional running balance.
type StatementLine struct {
	RunningBalance *decimal.Decimal
	Entry          *LedgerEntry
}

// Statement is one page of an account's journal, newest first.
type Statement struct {
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
	AccountID      string
	Currency       string
	TotalDebits    decimal.Decimal
	TotalCredits   decimal.Decimal
	NetChange      decimal.Decimal
	Lines          []StatementLine
	TotalElements  int64
	TotalPages     int
	Page           int
	Size           int
}

// HasNext reports whether another page follows.
func (s *Statement) HasNext() bool {
	return s.Page+1 < s.TotalPages
}

// LedgerTotals are the journal-wide sums used by the consistency check.
type LedgerTotals struct {
	TotalDebits   decimal.Decimal
	TotalCredits  decimal.Decimal
	TotalBalances decimal.Decimal
	JournalNet    decimal.Decimal
}

// Consistent holds when debits equal credits and cached balances equal the journal.
func (t LedgerTotals) Consistent() bool {
	return t.TotalDebits.Equal(t.TotalCredits) && t.TotalBalances.Equal(t.JournalNet)
}

// ReconciliationResult compares the cached balance of one account with its journal.
type ReconciliationResult struct {
	CheckedAt         time.Time
	AccountID         string
	CachedBalance     decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	Matched           bool
}
