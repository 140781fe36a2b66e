package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAccountBalance_UpdateBalance(t *testing.T) {
	t.Parallel()

	now := time.Now()
	b := NewAccountBalance("ACC-1", "TRY", now)

	if err := b.UpdateBalance(decimal.NewFromInt(250), "E1", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.UpdateBalance(decimal.NewFromInt(-300), "E2", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !b.Balance.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("expected -50, got %s", b.Balance)
	}
	if b.LastEntryID != "E2" {
		t.Fatalf("expected last entry E2, got %s", b.LastEntryID)
	}
}

func TestAccountBalance_Freeze(t *testing.T) {
	t.Parallel()

	now := time.Now()
	b := NewAccountBalance("ACC-1", "TRY", now)
	b.Balance = decimal.NewFromInt(1)

	if err := b.Freeze(now); !errors.Is(err, ErrNonZeroBalance) {
		t.Fatalf("expected ErrNonZeroBalance, got %v", err)
	}

	b.Balance = decimal.Zero
	if err := b.Freeze(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.UpdateBalance(decimal.NewFromInt(1), "E1", now); !errors.Is(err, ErrBalanceFrozen) {
		t.Fatalf("expected ErrBalanceFrozen, got %v", err)
	}
}
