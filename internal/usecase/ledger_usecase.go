package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
)

var errAlreadyApplied = errors.New("command already applied")

// LedgerUseCase handles the write side of the ledger: posting, reversal and
// balance lifecycle commands. Every command commits atomically or not at all.
type LedgerUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	entryRepo       EntryRepository
	balanceRepo     BalanceRepository
	projector       *BalanceProjector
	emitter         *OutboxEmitter
	idGen           IDGenerator
	retrier         Retrier
	applied         AppliedMarker
	metrics         MetricsRecorder
	logger          zerolog.Logger
	now             func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	entryRepo EntryRepository,
	balanceRepo BalanceRepository,
	emitter *OutboxEmitter,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		entryRepo:       entryRepo,
		balanceRepo:     balanceRepo,
		projector:       NewBalanceProjector(balanceRepo),
		emitter:         emitter,
		idGen:           idGen,
		metrics:         nopMetrics{},
		logger:          zerolog.Nop(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithRetrier sets the retrier used around each unit of work.
func (uc *LedgerUseCase) WithRetrier(retrier Retrier) *LedgerUseCase {
	uc.retrier = retrier
	return uc
}

// WithAppliedMarker enables the applied-command cache.
func (uc *LedgerUseCase) WithAppliedMarker(marker AppliedMarker) *LedgerUseCase {
	uc.applied = marker
	return uc
}

// WithMetrics sets the metrics recorder.
func (uc *LedgerUseCase) WithMetrics(m MetricsRecorder) *LedgerUseCase {
	uc.metrics = m
	uc.projector.WithMetrics(m)
	return uc
}

// WithLogger sets the logger.
func (uc *LedgerUseCase) WithLogger(logger zerolog.Logger) *LedgerUseCase {
	uc.logger = logger
	return uc
}

// WithClock overrides the time source.
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// RecordTransaction validates and posts a balanced transaction, updates the
// affected balances and emits the outbound events. Redelivery of an already
// recorded id is a successful no-op.
func (uc *LedgerUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (Outcome, error) {
	if err := input.validateID(); err != nil {
		return 0, err
	}

	// A known id wins over whatever payload the redelivery carries.
	key := appliedKey(operationRecord, input.TransactionID)
	if done, err := uc.alreadyRecorded(ctx, key, input.TransactionID); err != nil {
		return 0, err
	} else if done {
		return uc.skip(operationRecord, input.TransactionID), nil
	}

	if err := input.Validate(); err != nil {
		return 0, err
	}

	now := uc.now()
	txn, err := uc.buildTransaction(input, now)
	if err != nil {
		return 0, err
	}

	// 1. Double-entry rules before touching storage
	if err := domain.ValidateEntries(txn.ValidationEntries(), input.Currency); err != nil {
		return 0, err
	}

	// 2. Journal, projection and outbox in one transaction
	err = uc.inTransaction(ctx, func(tx Transaction) error {
		if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
			if errors.Is(err, domain.ErrDuplicateTransaction) {
				return errAlreadyApplied
			}
			return err
		}

		if err := uc.entryRepo.CreateBatch(ctx, tx, txn.Entries); err != nil {
			return err
		}

		changes, err := uc.projector.Apply(ctx, tx, txn.Entries, now)
		if err != nil {
			return err
		}

		if err := uc.emitter.EmitBalanceUpdates(ctx, tx, changes, now); err != nil {
			return err
		}

		return uc.emitter.Emit(ctx, tx, domain.AggregateTypeTransaction, txn.ID,
			domain.EventTypeTransactionPosted, domain.NewTransactionPostedEvent(txn, now), now)
	})
	if errors.Is(err, errAlreadyApplied) {
		return uc.skip(operationRecord, input.TransactionID), nil
	}
	if err != nil {
		return 0, err
	}

	uc.markApplied(ctx, key)
	uc.metrics.TransactionRecorded(txn.Type)
	uc.logger.Info().
		Str("transaction_id", txn.ID).
		Str("transaction_type", txn.Type).
		Int("entries", len(txn.Entries)).
		Msg("transaction recorded")

	return OutcomeApplied, nil
}

// ReverseTransaction posts the mirror image of a POSTED transaction and marks
// the original REVERSED. Reversing an already reversed transaction is a no-op.
func (uc *LedgerUseCase) ReverseTransaction(ctx context.Context, input ReverseTransactionInput) (Outcome, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	originalID := input.OriginalTransactionID
	reversalID := input.reversalID()
	reason := input.reason()

	key := appliedKey(operationReverse, originalID)
	if done, err := uc.isApplied(ctx, key); err != nil {
		return 0, err
	} else if done {
		return uc.skip(operationReverse, originalID), nil
	}

	// Fast path outside the transaction; re-checked under the row lock.
	current, err := uc.transactionRepo.GetByID(ctx, originalID)
	if err != nil {
		return 0, err
	}
	if current.IsReversed() {
		return uc.skip(operationReverse, originalID), nil
	}

	now := uc.now()

	err = uc.inTransaction(ctx, func(tx Transaction) error {
		original, err := uc.transactionRepo.GetByIDForUpdate(ctx, tx, originalID)
		if err != nil {
			return err
		}
		if original.IsReversed() {
			return errAlreadyApplied
		}

		entries, err := uc.entryRepo.GetByTransactionInTx(ctx, tx, originalID)
		if err != nil {
			return err
		}
		original.Entries = entries

		reversal := original.BuildReversal(reversalID, reason, uc.idGen.Generate, now)
		if err := domain.ValidateEntries(reversal.ValidationEntries(), original.Currency); err != nil {
			return fmt.Errorf("reversal of %s: %w", originalID, err)
		}

		if err := uc.transactionRepo.Create(ctx, tx, reversal); err != nil {
			if errors.Is(err, domain.ErrDuplicateTransaction) {
				return fmt.Errorf("%w: reversal id %s already in use", domain.ErrInvalidTransaction, reversalID)
			}
			return err
		}

		if err := uc.entryRepo.CreateBatch(ctx, tx, reversal.Entries); err != nil {
			return err
		}

		changes, err := uc.projector.Apply(ctx, tx, reversal.Entries, now)
		if err != nil {
			return err
		}

		if err := uc.transactionRepo.MarkReversed(ctx, tx, originalID, reversalID, now); err != nil {
			if errors.Is(err, domain.ErrTransactionAlreadyReversed) {
				return errAlreadyApplied
			}
			return err
		}

		if err := uc.emitter.EmitBalanceUpdates(ctx, tx, changes, now); err != nil {
			return err
		}

		return uc.emitter.Emit(ctx, tx, domain.AggregateTypeTransaction, originalID,
			domain.EventTypeTransactionReversed, domain.TransactionReversedEvent{
				OriginalTransactionID: originalID,
				ReversalTransactionID: reversalID,
				Reason:                reason,
				ReversedAt:            now.Format(time.RFC3339Nano),
			}, now)
	})
	if errors.Is(err, errAlreadyApplied) {
		return uc.skip(operationReverse, originalID), nil
	}
	if err != nil {
		return 0, err
	}

	uc.markApplied(ctx, key)
	uc.metrics.TransactionReversed()
	uc.logger.Info().
		Str("transaction_id", originalID).
		Str("reversal_id", reversalID).
		Str("reason", reason).
		Str("failed_step", input.FailedStep).
		Msg("transaction reversed")

	return OutcomeApplied, nil
}

// CreateInitialBalance opens a zero balance row. An existing row is left as is.
func (uc *LedgerUseCase) CreateInitialBalance(ctx context.Context, input CreateInitialBalanceInput) (Outcome, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	now := uc.now()
	var created bool

	err := uc.inTransaction(ctx, func(tx Transaction) error {
		var err error
		created, err = uc.balanceRepo.CreateIfAbsent(ctx, tx, domain.NewAccountBalance(input.AccountID, input.Currency, now))
		return err
	})
	if err != nil {
		return 0, err
	}

	if !created {
		return uc.skip(operationInitialBalance, input.AccountID), nil
	}

	uc.logger.Info().
		Str("account_id", input.AccountID).
		Str("currency", input.Currency).
		Msg("initial balance created")

	return OutcomeApplied, nil
}

// FreezeBalance blocks further postings on a zero balance account.
func (uc *LedgerUseCase) FreezeBalance(ctx context.Context, accountID string) (Outcome, error) {
	if accountID == "" {
		return 0, fmt.Errorf("%w: account id is required", domain.ErrValidation)
	}

	now := uc.now()

	err := uc.inTransaction(ctx, func(tx Transaction) error {
		balance, err := uc.balanceRepo.GetForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if balance.Frozen {
			return errAlreadyApplied
		}

		if err := balance.Freeze(now); err != nil {
			return fmt.Errorf("account %s balance %s: %w", accountID, balance.Balance.String(), err)
		}

		return uc.balanceRepo.Update(ctx, tx, balance)
	})
	if errors.Is(err, errAlreadyApplied) {
		return uc.skip(operationFreeze, accountID), nil
	}
	if err != nil {
		return 0, err
	}

	uc.logger.Info().Str("account_id", accountID).Msg("balance frozen")

	return OutcomeApplied, nil
}

// GetTransaction returns a journal transaction with its entries in sequence order.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.LedgerTransaction, error) {
	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	txn.Entries = domain.SortEntriesBySequence(entries)

	return txn, nil
}

func (uc *LedgerUseCase) buildTransaction(input RecordTransactionInput, now time.Time) (*domain.LedgerTransaction, error) {
	postingDate := domain.DateOnly(now)
	if !input.PostingDate.IsZero() {
		postingDate = domain.DateOnly(input.PostingDate)
	}
	valueDate := postingDate
	if !input.ValueDate.IsZero() {
		valueDate = domain.DateOnly(input.ValueDate)
	}

	txn := &domain.LedgerTransaction{
		ID:              input.TransactionID,
		Type:            input.TransactionType,
		PostingDate:     postingDate,
		ValueDate:       valueDate,
		TotalAmount:     input.TotalAmount,
		Currency:        input.Currency,
		Status:          domain.TransactionStatusPosted,
		Description:     input.Description,
		InitiatorID:     input.InitiatorID,
		ReferenceNumber: input.ReferenceNumber,
		FromAccountID:   input.FromAccountID,
		ToAccountID:     input.ToAccountID,
		CreatedAt:       now,
	}

	debits := decimal.Zero
	for _, ei := range input.Entries {
		entryType, err := domain.ParseEntryType(ei.EntryType)
		if err != nil {
			return nil, err
		}
		if entryType == domain.EntryTypeDebit {
			debits = debits.Add(ei.Amount)
		}

		currency := ei.Currency
		if currency == "" {
			currency = input.Currency
		}

		txn.Entries = append(txn.Entries, &domain.LedgerEntry{
			ID:              uc.idGen.Generate(),
			TransactionID:   input.TransactionID,
			TransactionType: input.TransactionType,
			Sequence:        ei.Sequence,
			AccountID:       ei.AccountID,
			EntryType:       entryType,
			Amount:          ei.Amount,
			Currency:        currency,
			PostingDate:     postingDate,
			ValueDate:       valueDate,
			Description:     ei.Description,
			ReferenceNumber: ei.ReferenceNumber,
			CreatedAt:       now,
		})
	}
	txn.Entries = domain.SortEntriesBySequence(txn.Entries)

	if txn.TotalAmount.IsZero() {
		txn.TotalAmount = debits
	}

	return txn, nil
}

// inTransaction runs fn in a fresh transaction, retrying the whole unit on
// transient storage errors.
func (uc *LedgerUseCase) inTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	op := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *LedgerUseCase) alreadyRecorded(ctx context.Context, key, transactionID string) (bool, error) {
	if done, err := uc.isApplied(ctx, key); err != nil || done {
		return done, err
	}
	return uc.transactionRepo.Exists(ctx, transactionID)
}

func (uc *LedgerUseCase) isApplied(ctx context.Context, key string) (bool, error) {
	if uc.applied == nil {
		return false, nil
	}

	done, err := uc.applied.IsApplied(ctx, key)
	if err != nil {
		// The cache is advisory; fall through to the journal.
		uc.logger.Warn().Err(err).Str("key", key).Msg("applied marker lookup failed")
		return false, nil
	}
	return done, nil
}

func (uc *LedgerUseCase) markApplied(ctx context.Context, key string) {
	if uc.applied == nil {
		return
	}
	if err := uc.applied.MarkApplied(ctx, key); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("applied marker write failed")
	}
}

func (uc *LedgerUseCase) skip(operation, id string) Outcome {
	uc.metrics.IdempotentSkip(operation)
	uc.logger.Info().Str("operation", operation).Str("id", id).Msg("command already applied, skipping")
	return OutcomeAlreadyApplied
}

func appliedKey(operation, id string) string {
	return operation + ":" + id
}
