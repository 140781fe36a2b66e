package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
	"github.com/triobank/ledger/internal/usecase/mocks"
)

func TestReconciliationUseCase_Matched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.uc.RecordTransaction(ctx, transfer("TXN-1", "ACC-B", "ACC-A", "42"))
	require.NoError(t, err)

	uc := usecase.NewReconciliationUseCase(h.balances, h.entries, h.ledger)

	result, err := uc.ReconcileAccount(ctx, "ACC-A")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.True(t, result.Difference.IsZero())

	report, err := uc.GenerateReconciliationReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalAccounts)
	assert.Equal(t, 2, report.ReconciledCount)
	assert.True(t, report.LedgerConsistent)
}

func TestReconciliationUseCase_Mismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	balances := mocks.NewMockBalanceRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)
	ledger := mocks.NewMockLedgerRepository(ctrl)

	balances.EXPECT().List(gomock.Any(), usecase.ReconcileBatchSize, 0).Return([]*domain.AccountBalance{
		{AccountID: "ACC-A", Balance: decimal.NewFromInt(10)},
	}, nil)
	entries.EXPECT().SumByAccount(gomock.Any(), "ACC-A", nil).Return(decimal.NewFromInt(7), nil)
	ledger.EXPECT().CheckConsistency(gomock.Any()).Return(domain.LedgerTotals{
		TotalDebits:   decimal.NewFromInt(7),
		TotalCredits:  decimal.NewFromInt(7),
		TotalBalances: decimal.NewFromInt(3),
		JournalNet:    decimal.Zero,
	}, nil)

	uc := usecase.NewReconciliationUseCase(balances, entries, ledger)

	report, err := uc.GenerateReconciliationReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.UnreconciledCount)
	require.Len(t, report.Mismatches, 1)
	assert.True(t, report.Mismatches[0].Difference.Equal(decimal.NewFromInt(3)))
	assert.False(t, report.LedgerConsistent)
}

func TestReconciliationUseCase_CheckLedgerConsistency(t *testing.T) {
	tests := []struct {
		name    string
		totals  domain.LedgerTotals
		repoErr error
		wantErr error
	}{
		{
			name: "balanced",
			totals: domain.LedgerTotals{
				TotalDebits: decimal.NewFromInt(5), TotalCredits: decimal.NewFromInt(5),
			},
		},
		{
			name: "debits differ from credits",
			totals: domain.LedgerTotals{
				TotalDebits: decimal.NewFromInt(5), TotalCredits: decimal.NewFromInt(4),
			},
			wantErr: usecase.ErrInconsistentLedger,
		},
		{
			name:    "repo error surfaces",
			repoErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledger := mocks.NewMockLedgerRepository(ctrl)
			ledger.EXPECT().CheckConsistency(gomock.Any()).Return(tt.totals, tt.repoErr)

			uc := usecase.NewReconciliationUseCase(nil, nil, ledger)
			_, err := uc.CheckLedgerConsistency(context.Background())

			switch {
			case tt.repoErr != nil:
				assert.ErrorIs(t, err, tt.repoErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
