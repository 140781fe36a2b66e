package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinEntries is the smallest entry set a transaction may carry.
const MinEntries = 2

// Amount limits of the NUMERIC(19,4) money columns.
const (
	AmountScale         = 4
	AmountIntegerDigits = 15
)

var maxAmountExclusive = decimal.New(1, AmountIntegerDigits)

// CheckAmountPrecision rejects amounts the money columns cannot store exactly.
func CheckAmountPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount.String(), AmountScale)
	}
	if amount.Abs().Cmp(maxAmountExclusive) >= 0 {
		return fmt.Errorf("%w: %s has more than %d integer digits", ErrInvalidAmount, amount.String(), AmountIntegerDigits)
	}
	return nil
}

// ValidationEntry is the subset of an entry the double-entry validator checks.
type ValidationEntry struct {
	EntryType EntryType
	Currency  string
	Amount    decimal.Decimal
	Sequence  int
}

// ValidateEntries checks the double-entry rules in order and reports the first
// violation. expectedCurrency may be empty.
func ValidateEntries(entries []ValidationEntry, expectedCurrency string) error {
	if len(entries) < MinEntries {
		return fmt.Errorf("%w: too few entries, found %d", ErrInvalidTransaction, len(entries))
	}

	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if e.Sequence <= 0 {
			return fmt.Errorf("%w: duplicate or invalid sequence %d", ErrInvalidTransaction, e.Sequence)
		}
		if _, dup := seen[e.Sequence]; dup {
			return fmt.Errorf("%w: duplicate or invalid sequence %d", ErrInvalidTransaction, e.Sequence)
		}
		seen[e.Sequence] = struct{}{}
	}

	currency := entries[0].Currency
	if currency == "" {
		return fmt.Errorf("%w: first entry has no currency", ErrCurrencyMismatch)
	}
	if expectedCurrency != "" && currency != expectedCurrency {
		return fmt.Errorf("%w: expected %s, got %s", ErrCurrencyMismatch, expectedCurrency, currency)
	}
	for _, e := range entries[1:] {
		if e.Currency != currency {
			return fmt.Errorf("%w: sequence %d has %s, expected %s", ErrCurrencyMismatch, e.Sequence, e.Currency, currency)
		}
	}

	for _, e := range entries {
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%w: sequence %d has amount %s", ErrInvalidAmount, e.Sequence, e.Amount.String())
		}
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.EntryType {
		case EntryTypeDebit:
			debits = debits.Add(e.Amount)
		case EntryTypeCredit:
			credits = credits.Add(e.Amount)
		default:
			return fmt.Errorf("%w: sequence %d has entry type %q", ErrInvalidTransaction, e.Sequence, e.EntryType)
		}
	}

	if !debits.Equal(credits) {
		return &DoubleEntryMismatchError{
			Debits:     debits,
			Credits:    credits,
			Difference: debits.Sub(credits).Abs(),
		}
	}

	return nil
}

// Pagination limits for statement and listing reads.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ValidatePagination clamps a zero-based page number and page size.
func ValidatePagination(page, size int) (int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 0 {
		page = 0
	}
	return page, size
}
