package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/infrastructure/postgres/generated"
	"github.com/triobank/ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// CreateBatch copies all entries of one transaction in a single round trip.
func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	params := make([]generated.CreateEntriesParams, 0, len(entries))
	for _, e := range entries {
		params = append(params, generated.CreateEntriesParams{
			ID:              e.ID,
			TransactionID:   e.TransactionID,
			Sequence:        int32(e.Sequence),
			AccountID:       e.AccountID,
			EntryType:       string(e.EntryType),
			Amount:          decimalToNumeric(e.Amount),
			Currency:        e.Currency,
			TransactionType: e.TransactionType,
			PostingDate:     timeToPgDate(e.PostingDate),
			ValueDate:       timeToPgDate(e.ValueDate),
			Description:     e.Description,
			ReferenceNumber: textOrNull(e.ReferenceNumber),
			CreatedAt:       timeToPgTimestamptz(e.CreatedAt),
		})
	}

	copied, err := queries.CreateEntries(ctx, params)
	if err != nil {
		return err
	}
	if copied != int64(len(entries)) {
		return fmt.Errorf("postgres: copied %d of %d entries", copied, len(entries))
	}

	return nil
}

// GetByTransaction retrieves the entries of a transaction ordered by sequence.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.GetEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// GetByTransactionInTx reads the entries of a transaction inside tx.
func (r *EntryRepository) GetByTransactionInTx(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.LedgerEntry, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// SumByAccount returns the signed journal sum of an account.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumEntriesByAccount(ctx, generated.SumEntriesByAccountParams{
		AccountID: accountID,
		UpTo:      optionalDate(upTo),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// SumBefore returns the signed sum of entries ordered strictly before cursor.
func (r *EntryRepository) SumBefore(ctx context.Context, accountID string, cursor domain.EntryCursor) (decimal.Decimal, error) {
	total, err := r.queries.SumEntriesBefore(ctx, generated.SumEntriesBeforeParams{
		AccountID:   accountID,
		PostingDate: timeToPgDate(cursor.PostingDate),
		CreatedAt:   timeToPgTimestamptz(cursor.CreatedAt),
		ID:          cursor.ID,
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// Search returns one page of matching entries, newest first, and the match count.
func (r *EntryRepository) Search(ctx context.Context, filter domain.StatementFilter) ([]*domain.LedgerEntry, int64, error) {
	var entryType pgtype.Text
	if filter.EntryType != nil {
		entryType = textOrNull(string(*filter.EntryType))
	}
	keyword := textOrNull(filter.Keyword)

	total, err := r.queries.CountEntries(ctx, generated.CountEntriesParams{
		AccountID: filter.AccountID,
		StartDate: optionalDate(filter.StartDate),
		EndDate:   optionalDate(filter.EndDate),
		EntryType: entryType,
		Keyword:   keyword,
	})
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.queries.SearchEntries(ctx, generated.SearchEntriesParams{
		AccountID: filter.AccountID,
		StartDate: optionalDate(filter.StartDate),
		EndDate:   optionalDate(filter.EndDate),
		EntryType: entryType,
		Keyword:   keyword,
		Limit:     int32(filter.Size),
		Offset:    int32(filter.Page * filter.Size),
	})
	if err != nil {
		return nil, 0, err
	}

	return rowsToEntries(rows), total, nil
}

func rowsToEntries(rows []generated.LedgerEntry) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:              row.ID,
		TransactionID:   row.TransactionID,
		Sequence:        int(row.Sequence),
		AccountID:       row.AccountID,
		EntryType:       domain.EntryType(row.EntryType),
		Amount:          numericToDecimal(row.Amount),
		Currency:        row.Currency,
		TransactionType: row.TransactionType,
		PostingDate:     pgDateToTime(row.PostingDate),
		ValueDate:       pgDateToTime(row.ValueDate),
		Description:     row.Description,
		ReferenceNumber: row.ReferenceNumber.String,
		CreatedAt:       row.CreatedAt.Time,
	}
}
