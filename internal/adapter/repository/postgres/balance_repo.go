package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/infrastructure/postgres/generated"
	"github.com/triobank/ledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	queries *generated.Queries
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return newBalanceRepository(pool)
}

func newBalanceRepository(db generated.DBTX) *BalanceRepository {
	return &BalanceRepository{queries: generated.New(db)}
}

// CreateIfAbsent inserts the row unless the account already has one.
func (r *BalanceRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) (bool, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return false, err
	}

	return insertIfAbsent(ctx, queries, balance)
}

// GetByAccountID retrieves a balance row.
func (r *BalanceRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	row, err := r.queries.GetBalance(ctx, accountID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}

	return rowToBalance(row), nil
}

// GetForUpdate retrieves a balance row with a row lock.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.AccountBalance, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	return getForUpdate(ctx, queries, accountID)
}

// GetOrCreateForUpdate inserts a zero row when missing, then locks it.
func (r *BalanceRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, accountID, currency string, now time.Time) (*domain.AccountBalance, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	if _, err := insertIfAbsent(ctx, queries, domain.NewAccountBalance(accountID, currency, now)); err != nil {
		return nil, err
	}

	return getForUpdate(ctx, queries, accountID)
}

// Update writes the row back if its version is unchanged.
func (r *BalanceRepository) Update(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	version, err := queries.UpdateBalance(ctx, generated.UpdateBalanceParams{
		AccountID:     balance.AccountID,
		Balance:       decimalToNumeric(balance.Balance),
		LastEntryID:   textOrNull(balance.LastEntryID),
		Frozen:        balance.Frozen,
		FrozenAt:      optionalTimestamptz(balance.FrozenAt),
		LastUpdatedAt: timeToPgTimestamptz(balance.LastUpdatedAt),
		Version:       balance.Version,
	})
	if err != nil {
		if isNoRows(err) {
			return domain.ErrConcurrencyConflict
		}
		return err
	}

	balance.Version = version
	return nil
}

// List retrieves balance rows ordered by account id.
func (r *BalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.AccountBalance, error) {
	rows, err := r.queries.ListBalances(ctx, generated.ListBalancesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	balances := make([]*domain.AccountBalance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, rowToBalance(row))
	}

	return balances, nil
}

func insertIfAbsent(ctx context.Context, queries *generated.Queries, balance *domain.AccountBalance) (bool, error) {
	inserted, err := queries.InsertBalanceIfAbsent(ctx, generated.InsertBalanceIfAbsentParams{
		AccountID:     balance.AccountID,
		Balance:       decimalToNumeric(balance.Balance),
		Currency:      balance.Currency,
		LastUpdatedAt: timeToPgTimestamptz(balance.LastUpdatedAt),
		CreatedAt:     timeToPgTimestamptz(balance.CreatedAt),
	})
	if err != nil {
		return false, err
	}

	return inserted > 0, nil
}

func getForUpdate(ctx context.Context, queries *generated.Queries, accountID string) (*domain.AccountBalance, error) {
	row, err := queries.GetBalanceForUpdate(ctx, accountID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}

	return rowToBalance(row), nil
}

func rowToBalance(row generated.AccountBalance) *domain.AccountBalance {
	return &domain.AccountBalance{
		AccountID:     row.AccountID,
		Balance:       numericToDecimal(row.Balance),
		Currency:      row.Currency,
		LastEntryID:   row.LastEntryID.String,
		Version:       row.Version,
		Frozen:        row.Frozen,
		FrozenAt:      timestamptzPtr(row.FrozenAt),
		LastUpdatedAt: row.LastUpdatedAt.Time,
		CreatedAt:     row.CreatedAt.Time,
	}
}
