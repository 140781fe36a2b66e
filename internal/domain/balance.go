package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the per-account projection of the journal.
type AccountBalance struct {
	LastUpdatedAt time.Time
	CreatedAt     time.Time
	FrozenAt      *time.Time
	AccountID     string
	Currency      string
	LastEntryID   string
	Balance       decimal.Decimal
	Version       int64
	Frozen        bool
}

// NewAccountBalance returns a zero balance row.
func NewAccountBalance(accountID, currency string, now time.Time) *AccountBalance {
	return &AccountBalance{
		AccountID:     accountID,
		Currency:      currency,
		Balance:       decimal.Zero,
		LastUpdatedAt: now,
		CreatedAt:     now,
	}
}

// UpdateBalance adds delta to the balance. Version is bumped by the repository
// when the row is persisted.
func (b *AccountBalance) UpdateBalance(delta decimal.Decimal, lastEntryID string, now time.Time) error {
	if b.Frozen {
		return ErrBalanceFrozen
	}

	b.Balance = b.Balance.Add(delta)
	b.LastEntryID = lastEntryID
	b.LastUpdatedAt = now

	return nil
}

// Freeze blocks further updates. Only a zero balance can be frozen.
func (b *AccountBalance) Freeze(now time.Time) error {
	if !b.Balance.IsZero() {
		return ErrNonZeroBalance
	}

	b.Frozen = true
	b.FrozenAt = &now
	b.LastUpdatedAt = now

	return nil
}

// BalanceChange describes one applied projection update.
type BalanceChange struct {
	UpdatedAt       time.Time
	AccountID       string
	Currency        string
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	Delta           decimal.Decimal
	Version         int64
}
