package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger line.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// ParseEntryType converts a wire value into an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(s) {
	case EntryTypeDebit, EntryTypeCredit:
		return EntryType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown entry type %q", ErrValidation, s)
	}
}

// Valid reports whether t is DEBIT or CREDIT.
func (t EntryType) Valid() bool {
	return t == EntryTypeDebit || t == EntryTypeCredit
}

// Sign returns +1 for CREDIT and -1 for DEBIT.
func (t EntryType) Sign() int {
	if t == EntryTypeCredit {
		return 1
	}
	return -1
}

// Opposite flips DEBIT and CREDIT.
func (t EntryType) Opposite() EntryType {
	if t == EntryTypeDebit {
		return EntryTypeCredit
	}
	return EntryTypeDebit
}

// LedgerEntry is a single immutable journal line owned by a LedgerTransaction.
type LedgerEntry struct {
	CreatedAt       time.Time
	PostingDate     time.Time
	ValueDate       time.Time
	ID              string
	TransactionID   string
	TransactionType string
	AccountID       string
	EntryType       EntryType
	Currency        string
	Description     string
	ReferenceNumber string
	Amount          decimal.Decimal
	Sequence        int
}

// SignedAmount is +amount for CREDIT and -amount for DEBIT.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.EntryType == EntryTypeCredit {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Cursor returns the position of the entry in the per-account journal order.
func (e *LedgerEntry) Cursor() EntryCursor {
	return EntryCursor{PostingDate: e.PostingDate, CreatedAt: e.CreatedAt, ID: e.ID}
}

// EntryCursor orders entries of one account by (posting date, created at, id).
type EntryCursor struct {
	PostingDate time.Time
	CreatedAt   time.Time
	ID          string
}

// Before reports whether c sorts strictly before other.
func (c EntryCursor) Before(other EntryCursor) bool {
	if !c.PostingDate.Equal(other.PostingDate) {
		return c.PostingDate.Before(other.PostingDate)
	}
	if !c.CreatedAt.Equal(other.CreatedAt) {
		return c.CreatedAt.Before(other.CreatedAt)
	}
	return c.ID < other.ID
}

// ToValidationEntry projects the fields the double-entry validator looks at.
func (e *LedgerEntry) ToValidationEntry() ValidationEntry {
	return ValidationEntry{
		Sequence:  e.Sequence,
		EntryType: e.EntryType,
		Amount:    e.Amount,
		Currency:  e.Currency,
	}
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
