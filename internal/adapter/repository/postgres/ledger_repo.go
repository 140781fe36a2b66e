package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency sums the whole journal and every cached balance.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (domain.LedgerTotals, error) {
	row, err := r.queries.GetLedgerTotals(ctx)
	if err != nil {
		return domain.LedgerTotals{}, err
	}

	totals := domain.LedgerTotals{
		TotalDebits:   numericToDecimal(row.TotalDebits),
		TotalCredits:  numericToDecimal(row.TotalCredits),
		TotalBalances: numericToDecimal(row.TotalBalances),
	}
	totals.JournalNet = totals.TotalCredits.Sub(totals.TotalDebits)

	return totals, nil
}
