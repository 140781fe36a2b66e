package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/triobank/ledger/internal/domain"
)

// ErrInconsistentLedger is returned when journal-wide totals do not balance.
var ErrInconsistentLedger = errors.New("ledger is inconsistent")

// ReconciliationUseCase compares cached balances with the journal.
type ReconciliationUseCase struct {
	balanceRepo BalanceRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	metrics     MetricsRecorder
	logger      zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	balanceRepo BalanceRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		balanceRepo: balanceRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		metrics:     nopMetrics{},
		logger:      zerolog.Nop(),
	}
}

// WithMetrics sets the metrics recorder.
func (uc *ReconciliationUseCase) WithMetrics(m MetricsRecorder) *ReconciliationUseCase {
	uc.metrics = m
	return uc
}

// WithLogger sets the logger.
func (uc *ReconciliationUseCase) WithLogger(logger zerolog.Logger) *ReconciliationUseCase {
	uc.logger = logger
	return uc
}

// ReconcileAccount checks that the cached balance equals the journal sum.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*domain.ReconciliationResult, error) {
	balance, err := uc.balanceRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, balance)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, balance *domain.AccountBalance) (*domain.ReconciliationResult, error) {
	calculated, err := uc.entryRepo.SumByAccount(ctx, balance.AccountID, nil)
	if err != nil {
		return nil, err
	}

	result := &domain.ReconciliationResult{
		AccountID:         balance.AccountID,
		CachedBalance:     balance.Balance,
		CalculatedBalance: calculated,
		Difference:        balance.Balance.Sub(calculated),
		Matched:           balance.Balance.Equal(calculated),
		CheckedAt:         time.Now().UTC(),
	}

	if !result.Matched {
		uc.metrics.ReconciliationMismatch()
		uc.logger.Error().
			Str("account_id", balance.AccountID).
			Str("cached", balance.Balance.String()).
			Str("calculated", calculated.String()).
			Msg("balance mismatch")
	}

	return result, nil
}

// ReconcileAllAccounts reconciles every balance row, page by page.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*domain.ReconciliationResult, error) {
	var results []*domain.ReconciliationResult

	for offset := 0; ; offset += ReconcileBatchSize {
		balances, err := uc.balanceRepo.List(ctx, ReconcileBatchSize, offset)
		if err != nil {
			return nil, err
		}

		for _, balance := range balances {
			result, err := uc.reconcile(ctx, balance)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", balance.AccountID, err)
			}
			results = append(results, result)
		}

		if len(balances) < ReconcileBatchSize {
			return results, nil
		}
	}
}

// CheckLedgerConsistency verifies journal-wide double-entry totals.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) (domain.LedgerTotals, error) {
	totals, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return totals, err
	}

	if !totals.TotalDebits.Equal(totals.TotalCredits) {
		return totals, fmt.Errorf(
			"%w: debits=%s credits=%s difference=%s",
			ErrInconsistentLedger,
			totals.TotalDebits.String(),
			totals.TotalCredits.String(),
			totals.TotalDebits.Sub(totals.TotalCredits).String(),
		)
	}

	if !totals.TotalBalances.Equal(totals.JournalNet) {
		return totals, fmt.Errorf(
			"%w: cached balances=%s journal=%s",
			ErrInconsistentLedger,
			totals.TotalBalances.String(),
			totals.JournalNet.String(),
		)
	}

	return totals, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	GeneratedAt       time.Time
	Totals            domain.LedgerTotals
	Mismatches        []*domain.ReconciliationResult
	TotalAccounts     int
	ReconciledCount   int
	UnreconciledCount int
	LedgerConsistent  bool
}

// GenerateReconciliationReport reconciles every account and checks ledger totals.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		GeneratedAt:   time.Now().UTC(),
		TotalAccounts: len(results),
	}

	for _, result := range results {
		if result.Matched {
			report.ReconciledCount++
			continue
		}
		report.UnreconciledCount++
		report.Mismatches = append(report.Mismatches, result)
	}

	totals, err := uc.CheckLedgerConsistency(ctx)
	report.Totals = totals
	report.LedgerConsistent = err == nil
	if err != nil && !errors.Is(err, ErrInconsistentLedger) {
		return nil, err
	}

	return report, nil
}
