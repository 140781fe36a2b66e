package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Shape errors
	ErrValidation = errors.New("validation failed")

	// Double-entry errors
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDoubleEntryMismatch = errors.New("double entry mismatch")

	// Journal errors
	ErrDuplicateTransaction       = errors.New("transaction already exists")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrTransactionAlreadyReversed = errors.New("transaction already reversed")

	// Balance errors
	ErrBalanceNotFound     = errors.New("account balance not found")
	ErrBalanceFrozen       = errors.New("account balance is frozen")
	ErrNonZeroBalance      = errors.New("account balance is not zero")
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)

// DoubleEntryMismatchError carries the totals of an unbalanced entry set.
type DoubleEntryMismatchError struct {
	Debits     decimal.Decimal
	Credits    decimal.Decimal
	Difference decimal.Decimal
}

func (e *DoubleEntryMismatchError) Error() string {
	return fmt.Sprintf("%s: debits=%s credits=%s difference=%s",
		ErrDoubleEntryMismatch, e.Debits.String(), e.Credits.String(), e.Difference.String())
}

// Is lets errors.Is match ErrDoubleEntryMismatch.
func (e *DoubleEntryMismatchError) Is(target error) bool {
	return target == ErrDoubleEntryMismatch
}

var permanentErrors = []error{
	ErrValidation,
	ErrInvalidTransaction,
	ErrCurrencyMismatch,
	ErrInvalidAmount,
	ErrDoubleEntryMismatch,
	ErrBalanceNotFound,
	ErrBalanceFrozen,
	ErrNonZeroBalance,
}

// IsPermanent reports whether redelivering the same command can never succeed.
func IsPermanent(err error) bool {
	for _, target := range permanentErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
