package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triobank/ledger/internal/usecase"
)

func TestLedgerUseCase_ConcurrentCredits(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const workers = 50
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.uc.RecordTransaction(ctx, transfer(fmt.Sprintf("TXN-%d", i), "ACC-SRC", "ACC-DST", "10"))
			if err != nil {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Zero(t, failures.Load())
	assert.True(t, h.balance(t, "ACC-DST").Equal(decimal.NewFromInt(10*workers)))
	assert.True(t, h.balance(t, "ACC-SRC").Equal(decimal.NewFromInt(-10*workers)))

	b, err := h.balances.GetByAccountID(ctx, "ACC-DST")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), b.Version)
}

func TestLedgerUseCase_ConcurrentOpposingTransfers(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const rounds = 40
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := range rounds {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := h.uc.RecordTransaction(ctx, transfer(fmt.Sprintf("AB-%d", i), "ACC-A", "ACC-B", "3")); err != nil {
				failures.Add(1)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if _, err := h.uc.RecordTransaction(ctx, transfer(fmt.Sprintf("BA-%d", i), "ACC-B", "ACC-A", "1")); err != nil {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Zero(t, failures.Load(), "opposite lock orders must not deadlock")
	assert.True(t, h.balance(t, "ACC-A").Equal(decimal.NewFromInt(-2*rounds)))
	assert.True(t, h.balance(t, "ACC-B").Equal(decimal.NewFromInt(2*rounds)))
}

func TestLedgerUseCase_ConcurrentRedelivery(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	input := transfer("TXN-1", "ACC-B", "ACC-A", "100")

	const deliveries = 20
	var wg sync.WaitGroup
	var applied, skipped atomic.Int32

	for range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := h.uc.RecordTransaction(ctx, input)
			if err != nil {
				return
			}
			switch outcome {
			case usecase.OutcomeApplied:
				applied.Add(1)
			case usecase.OutcomeAlreadyApplied:
				skipped.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), applied.Load())
	assert.Equal(t, int32(deliveries-1), skipped.Load())
	assert.True(t, h.balance(t, "ACC-A").Equal(decimal.NewFromInt(100)))
}

func TestLedgerUseCase_ConcurrentReversal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.RecordTransaction(ctx, transfer("TXN-1", "ACC-B", "ACC-A", "100"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var applied atomic.Int32
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := h.uc.ReverseTransaction(ctx, usecase.ReverseTransactionInput{OriginalTransactionID: "TXN-1"})
			if err == nil && outcome == usecase.OutcomeApplied {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), applied.Load())
	assert.True(t, h.balance(t, "ACC-A").IsZero())
}

// Random balanced postings keep every cached balance equal to its journal sum.
func TestLedgerUseCase_RandomPostingsStayConsistent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	faker := gofakeit.New(42)

	accounts := []string{"ACC-1", "ACC-2", "ACC-3", "ACC-4", "ACC-5"}

	for i := range 200 {
		from := accounts[faker.Number(0, len(accounts)-1)]
		to := accounts[faker.Number(0, len(accounts)-1)]
		amt := decimal.NewFromFloat(faker.Price(0.01, 5000)).Round(2)
		if !amt.IsPositive() {
			continue
		}

		input := transfer(fmt.Sprintf("TXN-%d", i), from, to, amt.String())
		_, err := h.uc.RecordTransaction(ctx, input)
		require.NoError(t, err)

		if faker.Bool() {
			_, err := h.uc.ReverseTransaction(ctx, usecase.ReverseTransactionInput{OriginalTransactionID: input.TransactionID})
			require.NoError(t, err)
		}
	}

	balanceUC := usecase.NewBalanceUseCase(h.balances, h.entries)
	for _, acc := range accounts {
		b, err := h.balances.GetByAccountID(ctx, acc)
		if err != nil {
			continue
		}
		calculated, err := balanceUC.CalculateBalance(ctx, acc, nil)
		require.NoError(t, err)
		assert.True(t, b.Balance.Equal(calculated), "account %s cached=%s journal=%s", acc, b.Balance, calculated)
	}

	totals, err := h.ledger.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, totals.Consistent())
}
