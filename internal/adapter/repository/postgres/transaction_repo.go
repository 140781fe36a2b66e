package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/infrastructure/postgres/generated"
	"github.com/triobank/ledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts the header. A primary key violation means the id was already used.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.LedgerTransaction) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		TransactionID:         txn.ID,
		TransactionType:       txn.Type,
		PostingDate:           timeToPgDate(txn.PostingDate),
		ValueDate:             timeToPgDate(txn.ValueDate),
		TotalAmount:           decimalToNumeric(txn.TotalAmount),
		Currency:              txn.Currency,
		Status:                string(txn.Status),
		Description:           txn.Description,
		InitiatorID:           textOrNull(txn.InitiatorID),
		ReferenceNumber:       textOrNull(txn.ReferenceNumber),
		FromAccountID:         textOrNull(txn.FromAccountID),
		ToAccountID:           textOrNull(txn.ToAccountID),
		IsReversal:            txn.IsReversal,
		OriginalTransactionID: optionalText(txn.OriginalTransactionID),
		CreatedAt:             timeToPgTimestamptz(txn.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrDuplicateTransaction
	}

	return err
}

// Exists reports whether a committed header has the id.
func (r *TransactionRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.queries.TransactionExists(ctx, id)
}

// GetByID retrieves a header without its entries.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.LedgerTransaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// GetByIDForUpdate retrieves a header with a row lock held until tx ends.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerTransaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetTransactionForUpdate(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// MarkReversed moves a POSTED header to REVERSED.
func (r *TransactionRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id, reversedBy string, reversedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	affected, err := queries.MarkTransactionReversed(ctx, generated.MarkTransactionReversedParams{
		TransactionID:           id,
		ReversedByTransactionID: textOrNull(reversedBy),
		ReversedAt:              timeToPgTimestamptz(reversedAt),
	})
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	if _, err := queries.GetTransaction(ctx, id); err != nil {
		if isNoRows(err) {
			return domain.ErrTransactionNotFound
		}
		return err
	}
	return domain.ErrTransactionAlreadyReversed
}

func rowToTransaction(row generated.LedgerTransaction) *domain.LedgerTransaction {
	return &domain.LedgerTransaction{
		ID:                      row.TransactionID,
		Type:                    row.TransactionType,
		PostingDate:             pgDateToTime(row.PostingDate),
		ValueDate:               pgDateToTime(row.ValueDate),
		TotalAmount:             numericToDecimal(row.TotalAmount),
		Currency:                row.Currency,
		Status:                  domain.TransactionStatus(row.Status),
		Description:             row.Description,
		InitiatorID:             row.InitiatorID.String,
		ReferenceNumber:         row.ReferenceNumber.String,
		FromAccountID:           row.FromAccountID.String,
		ToAccountID:             row.ToAccountID.String,
		IsReversal:              row.IsReversal,
		OriginalTransactionID:   textPtr(row.OriginalTransactionID),
		ReversedByTransactionID: textPtr(row.ReversedByTransactionID),
		ReversedAt:              timestamptzPtr(row.ReversedAt),
		CreatedAt:               row.CreatedAt.Time,
	}
}
