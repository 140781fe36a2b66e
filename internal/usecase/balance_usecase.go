package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
)

// BalanceUseCase handles balance and statement reads.
type BalanceUseCase struct {
	balanceRepo BalanceRepository
	entryRepo   EntryRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(balanceRepo BalanceRepository, entryRepo EntryRepository) *BalanceUseCase {
	return &BalanceUseCase{
		balanceRepo: balanceRepo,
		entryRepo:   entryRepo,
	}
}

// GetBalance returns the cached balance of an account.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	return uc.balanceRepo.GetByAccountID(ctx, accountID)
}

// CalculateBalance sums every journal entry of the account, optionally up to
// and including the given posting date.
func (uc *BalanceUseCase) CalculateBalance(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error) {
	if upTo != nil {
		day := domain.DateOnly(*upTo)
		upTo = &day
	}
	return uc.entryRepo.SumByAccount(ctx, accountID, upTo)
}

// StatementQuery represents a statement request.
type StatementQuery struct {
	StartDate             *time.Time
	EndDate               *time.Time
	EntryType             string
	AccountID             string
	Keyword               string
	Page                  int
	Size                  int
	IncludeRunningBalance bool
}

// GetAccountStatement returns one page of entries, newest first.
func (uc *BalanceUseCase) GetAccountStatement(ctx context.Context, query StatementQuery) (*domain.Statement, error) {
	if query.AccountID == "" {
		return nil, fmt.Errorf("%w: account id is required", domain.ErrValidation)
	}
	if query.StartDate != nil && query.EndDate != nil && query.EndDate.Before(*query.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrValidation)
	}

	page, size := domain.ValidatePagination(query.Page, query.Size)
	filter := domain.StatementFilter{
		AccountID: query.AccountID,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Keyword:   query.Keyword,
		Page:      page,
		Size:      size,
	}
	if query.EntryType != "" {
		entryType, err := domain.ParseEntryType(query.EntryType)
		if err != nil {
			return nil, err
		}
		filter.EntryType = &entryType
	}

	entries, total, err := uc.entryRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	statement := &domain.Statement{
		AccountID:     query.AccountID,
		TotalDebits:   decimal.Zero,
		TotalCredits:  decimal.Zero,
		NetChange:     decimal.Zero,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		Page:          page,
		Size:          size,
		Lines:         make([]domain.StatementLine, len(entries)),
	}

	if balance, err := uc.balanceRepo.GetByAccountID(ctx, query.AccountID); err == nil {
		statement.Currency = balance.Currency
	} else if !errors.Is(err, domain.ErrBalanceNotFound) {
		return nil, err
	}

	for i, e := range entries {
		statement.Lines[i] = domain.StatementLine{Entry: e}
		if statement.Currency == "" {
			statement.Currency = e.Currency
		}

		switch e.EntryType {
		case domain.EntryTypeDebit:
			statement.TotalDebits = statement.TotalDebits.Add(e.Amount)
		case domain.EntryTypeCredit:
			statement.TotalCredits = statement.TotalCredits.Add(e.Amount)
		}
		statement.NetChange = statement.NetChange.Add(e.SignedAmount())
	}

	if query.IncludeRunningBalance && len(entries) > 0 {
		if err := uc.fillRunningBalances(ctx, filter, statement); err != nil {
			return nil, err
		}
	}

	return statement, nil
}

// fillRunningBalances sets each line's balance as of that entry. Lines are
// newest first, so accumulation walks the page backwards.
func (uc *BalanceUseCase) fillRunningBalances(ctx context.Context, filter domain.StatementFilter, statement *domain.Statement) error {
	lines := statement.Lines

	if filter.Filtered() {
		// Hidden entries sit between visible ones; ask the journal per line.
		for i := range lines {
			before, err := uc.entryRepo.SumBefore(ctx, filter.AccountID, lines[i].Entry.Cursor())
			if err != nil {
				return err
			}
			running := before.Add(lines[i].Entry.SignedAmount())
			lines[i].RunningBalance = &running

			if i == len(lines)-1 {
				opening := before
				statement.OpeningBalance = &opening
			}
		}
		statement.ClosingBalance = lines[0].RunningBalance
		return nil
	}

	oldest := lines[len(lines)-1].Entry
	opening, err := uc.entryRepo.SumBefore(ctx, filter.AccountID, oldest.Cursor())
	if err != nil {
		return err
	}

	running := opening
	for i := len(lines) - 1; i >= 0; i-- {
		running = running.Add(lines[i].Entry.SignedAmount())
		value := running
		lines[i].RunningBalance = &value
	}

	closing := running
	statement.OpeningBalance = &opening
	statement.ClosingBalance = &closing

	return nil
}
