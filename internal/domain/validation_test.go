package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func entry(seq int, typ EntryType, amount, currency string) ValidationEntry {
	return ValidationEntry{
		Sequence:  seq,
		EntryType: typ,
		Amount:    decimal.RequireFromString(amount),
		Currency:  currency,
	}
}

func TestValidateEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entries  []ValidationEntry
		currency string
		wantErr  error
	}{
		{
			name: "balanced pair",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100.00", "TRY"),
				entry(2, EntryTypeCredit, "100.00", "TRY"),
			},
			currency: "TRY",
		},
		{
			name: "balanced three way split",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100.00", "TRY"),
				entry(2, EntryTypeCredit, "60.00", "TRY"),
				entry(3, EntryTypeCredit, "40.00", "TRY"),
			},
		},
		{
			name:     "single entry",
			entries:  []ValidationEntry{entry(1, EntryTypeDebit, "100", "TRY")},
			currency: "TRY",
			wantErr:  ErrInvalidTransaction,
		},
		{
			name:    "no entries",
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "duplicate sequence",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100", "TRY"),
				entry(1, EntryTypeCredit, "100", "TRY"),
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "zero sequence",
			entries: []ValidationEntry{
				entry(0, EntryTypeDebit, "100", "TRY"),
				entry(1, EntryTypeCredit, "100", "TRY"),
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "mixed currencies",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100", "TRY"),
				entry(2, EntryTypeCredit, "100", "USD"),
			},
			wantErr: ErrCurrencyMismatch,
		},
		{
			name: "unexpected currency",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100", "USD"),
				entry(2, EntryTypeCredit, "100", "USD"),
			},
			currency: "TRY",
			wantErr:  ErrCurrencyMismatch,
		},
		{
			name: "negative amount",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "-5", "TRY"),
				entry(2, EntryTypeCredit, "-5", "TRY"),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "zero amount",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "0", "TRY"),
				entry(2, EntryTypeCredit, "0", "TRY"),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "unbalanced",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100", "TRY"),
				entry(2, EntryTypeCredit, "99.99", "TRY"),
			},
			wantErr: ErrDoubleEntryMismatch,
		},
		{
			name: "unknown entry type",
			entries: []ValidationEntry{
				entry(1, EntryTypeDebit, "100", "TRY"),
				entry(2, EntryType("HOLD"), "100", "TRY"),
			},
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateEntries(tt.entries, tt.currency)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateEntries_RuleOrder(t *testing.T) {
	t.Parallel()

	// Currency is checked before amounts and balance.
	err := ValidateEntries([]ValidationEntry{
		entry(1, EntryTypeDebit, "-1", "TRY"),
		entry(2, EntryTypeCredit, "7", "EUR"),
	}, "")
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}

	// Sequence is checked before currency.
	err = ValidateEntries([]ValidationEntry{
		entry(2, EntryTypeDebit, "1", "TRY"),
		entry(2, EntryTypeCredit, "1", "EUR"),
	}, "")
	if !errors.Is(err, ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}
}

func TestValidateEntries_MismatchTotals(t *testing.T) {
	t.Parallel()

	err := ValidateEntries([]ValidationEntry{
		entry(1, EntryTypeDebit, "100", "TRY"),
		entry(2, EntryTypeCredit, "99.99", "TRY"),
	}, "TRY")

	var mismatch *DoubleEntryMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DoubleEntryMismatchError, got %v", err)
	}
	if !mismatch.Debits.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected debits %s", mismatch.Debits)
	}
	if !mismatch.Credits.Equal(decimal.RequireFromString("99.99")) {
		t.Fatalf("unexpected credits %s", mismatch.Credits)
	}
	if !mismatch.Difference.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("unexpected difference %s", mismatch.Difference)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	page, size := ValidatePagination(-1, 0)
	if page != 0 || size != DefaultPageSize {
		t.Fatalf("expected defaults, got page=%d size=%d", page, size)
	}

	_, size = ValidatePagination(0, MaxPageSize+1)
	if size != MaxPageSize {
		t.Fatalf("expected size capped at %d, got %d", MaxPageSize, size)
	}
}

func TestIsPermanent(t *testing.T) {
	t.Parallel()

	if !IsPermanent(&DoubleEntryMismatchError{}) {
		t.Fatal("expected mismatch to be permanent")
	}
	if IsPermanent(ErrConcurrencyConflict) {
		t.Fatal("expected concurrency conflict to be retryable")
	}
	if IsPermanent(ErrTransactionNotFound) {
		t.Fatal("expected missing transaction to be retryable")
	}
}

func TestCheckAmountPrecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		ok     bool
	}{
		{"0.0001", true},
		{"12.50000", true},
		{"999999999999999.9999", true},
		{"-999999999999999", true},
		{"0.00005", false},
		{"1.23456", false},
		{"1000000000000000", false},
		{"-1000000000000000.5", false},
	}

	for _, tt := range tests {
		err := CheckAmountPrecision(decimal.RequireFromString(tt.amount))
		if tt.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tt.amount, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v", tt.amount, err)
		}
	}
}
