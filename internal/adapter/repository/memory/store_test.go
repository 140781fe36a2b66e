package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triobank/ledger/internal/domain"
)

func TestTx_BalanceLockBlocksUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	balances := NewBalanceRepository(store)
	now := time.Now()

	first, err := txm.Begin(ctx)
	require.NoError(t, err)

	b, err := balances.GetOrCreateForUpdate(ctx, first, "ACC-1", "TRY", now)
	require.NoError(t, err)
	require.NoError(t, b.UpdateBalance(decimal.NewFromInt(10), "E1", now))
	require.NoError(t, balances.Update(ctx, first, b))

	locked := make(chan *domain.AccountBalance)
	go func() {
		second, _ := txm.Begin(ctx)
		defer second.Rollback(ctx)
		row, err := balances.GetOrCreateForUpdate(ctx, second, "ACC-1", "TRY", now)
		if err != nil {
			close(locked)
			return
		}
		locked <- row
	}()

	select {
	case <-locked:
		t.Fatal("second transaction acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Commit(ctx))

	select {
	case row := <-locked:
		require.NotNil(t, row)
		assert.True(t, row.Balance.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(1), row.Version)
	case <-time.After(time.Second):
		t.Fatal("lock not released on commit")
	}
}

func TestTx_LockHonoursContext(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	balances := NewBalanceRepository(store)

	holder, _ := txm.Begin(context.Background())
	defer holder.Rollback(context.Background())
	_, err := balances.GetOrCreateForUpdate(context.Background(), holder, "ACC-1", "TRY", time.Now())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	waiter, _ := txm.Begin(ctx)
	defer waiter.Rollback(ctx)
	_, err = balances.GetForUpdate(ctx, waiter, "ACC-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransactionRepository_DuplicateAcrossOpenTransactions(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	repo := NewTransactionRepository(store)
	txn := &domain.LedgerTransaction{ID: "TXN-1", Status: domain.TransactionStatusPosted}

	first, _ := txm.Begin(ctx)
	second, _ := txm.Begin(ctx)
	defer second.Rollback(ctx)

	require.NoError(t, repo.Create(ctx, first, txn))
	assert.ErrorIs(t, repo.Create(ctx, second, txn), domain.ErrDuplicateTransaction)

	require.NoError(t, first.Rollback(ctx))

	exists, err := repo.Exists(ctx, "TXN-1")
	require.NoError(t, err)
	assert.False(t, exists)

	third, _ := txm.Begin(ctx)
	require.NoError(t, repo.Create(ctx, third, txn))
	require.NoError(t, third.Commit(ctx))

	exists, err = repo.Exists(ctx, "TXN-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTransactionRepository_MarkReversed(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	repo := NewTransactionRepository(store)

	setup, _ := txm.Begin(ctx)
	require.NoError(t, repo.Create(ctx, setup, &domain.LedgerTransaction{ID: "TXN-1", Status: domain.TransactionStatusPosted}))
	require.NoError(t, setup.Commit(ctx))

	tx, _ := txm.Begin(ctx)
	assert.ErrorIs(t, repo.MarkReversed(ctx, tx, "TXN-1", "TXN-1-REV", time.Now()), ErrRowNotLocked)

	_, err := repo.GetByIDForUpdate(ctx, tx, "TXN-1")
	require.NoError(t, err)
	require.NoError(t, repo.MarkReversed(ctx, tx, "TXN-1", "TXN-1-REV", time.Now()))
	assert.ErrorIs(t, repo.MarkReversed(ctx, tx, "TXN-1", "TXN-1-REV", time.Now()), domain.ErrTransactionAlreadyReversed)
	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetByID(ctx, "TXN-1")
	require.NoError(t, err)
	assert.True(t, got.IsReversed())
	assert.Equal(t, "TXN-1-REV", *got.ReversedByTransactionID)
}

func TestBalanceRepository_UpdateRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	repo := NewBalanceRepository(store)

	tx, _ := txm.Begin(ctx)
	defer tx.Rollback(ctx)

	b, err := repo.GetOrCreateForUpdate(ctx, tx, "ACC-1", "TRY", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tx, b))

	stale := *b
	stale.Version = 0
	assert.ErrorIs(t, repo.Update(ctx, tx, &stale), domain.ErrConcurrencyConflict)
}

func TestEntryRepository_SearchAndSums(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	repo := NewEntryRepository(store)

	day1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	entries := []*domain.LedgerEntry{
		{ID: "E1", TransactionID: "T1", Sequence: 1, AccountID: "A", EntryType: domain.EntryTypeCredit, Amount: decimal.NewFromInt(100), PostingDate: day1, CreatedAt: day1, Description: "salary"},
		{ID: "E2", TransactionID: "T2", Sequence: 1, AccountID: "A", EntryType: domain.EntryTypeDebit, Amount: decimal.NewFromInt(30), PostingDate: day2, CreatedAt: day2, Description: "coffee"},
		{ID: "E3", TransactionID: "T3", Sequence: 1, AccountID: "A", EntryType: domain.EntryTypeDebit, Amount: decimal.NewFromInt(20), PostingDate: day2, CreatedAt: day2.Add(time.Minute), Description: "Coffee beans"},
	}

	tx, _ := txm.Begin(ctx)
	require.NoError(t, repo.CreateBatch(ctx, tx, entries))
	require.NoError(t, tx.Commit(ctx))

	sum, err := repo.SumByAccount(ctx, "A", nil)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(50)))

	sum, err = repo.SumByAccount(ctx, "A", &day1)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))

	before, err := repo.SumBefore(ctx, "A", entries[2].Cursor())
	require.NoError(t, err)
	assert.True(t, before.Equal(decimal.NewFromInt(70)))

	page, total, err := repo.Search(ctx, domain.StatementFilter{AccountID: "A", Keyword: "coffee", Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, "E3", page[0].ID)

	page, _, err = repo.Search(ctx, domain.StatementFilter{AccountID: "A", Page: 5, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestEntryRepository_GetByTransactionInTxSeesStagedEntries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	repo := NewEntryRepository(store)

	committed := &domain.LedgerEntry{ID: "E1", TransactionID: "T1", Sequence: 2, AccountID: "A", EntryType: domain.EntryTypeCredit, Amount: decimal.NewFromInt(10)}
	tx, _ := txm.Begin(ctx)
	require.NoError(t, repo.CreateBatch(ctx, tx, []*domain.LedgerEntry{committed}))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = txm.Begin(ctx)
	defer tx.Rollback(ctx)
	staged := &domain.LedgerEntry{ID: "E0", TransactionID: "T1", Sequence: 1, AccountID: "B", EntryType: domain.EntryTypeDebit, Amount: decimal.NewFromInt(10)}
	require.NoError(t, repo.CreateBatch(ctx, tx, []*domain.LedgerEntry{staged}))

	got, err := repo.GetByTransactionInTx(ctx, tx, "T1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "E0", got[0].ID)
	assert.Equal(t, "E1", got[1].ID)

	outside, err := repo.GetByTransaction(ctx, "T1")
	require.NoError(t, err)
	assert.Len(t, outside, 1)
}
