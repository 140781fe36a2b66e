package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

const dateLayout = "2006-01-02"

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BalanceResponse represents a cached balance in API responses.
type BalanceResponse struct {
	AccountID     string          `json:"account_id"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	LastEntryID   string          `json:"last_entry_id,omitempty"`
	Version       int64           `json:"version"`
	Frozen        bool            `json:"frozen"`
	FrozenAt      *time.Time      `json:"frozen_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
}

// BalanceFromDomain converts a domain balance to response.
func BalanceFromDomain(b *domain.AccountBalance) *BalanceResponse {
	return &BalanceResponse{
		AccountID:     b.AccountID,
		Currency:      b.Currency,
		Balance:       b.Balance,
		LastEntryID:   b.LastEntryID,
		Version:       b.Version,
		Frozen:        b.Frozen,
		FrozenAt:      b.FrozenAt,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

// CalculatedBalanceResponse is a balance summed from the journal.
type CalculatedBalanceResponse struct {
	AccountID string          `json:"account_id"`
	UpTo      string          `json:"up_to,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewCalculatedBalanceResponse builds the response for an optional cut-off date.
func NewCalculatedBalanceResponse(accountID string, upTo *time.Time, balance decimal.Decimal) *CalculatedBalanceResponse {
	resp := &CalculatedBalanceResponse{AccountID: accountID, Balance: balance}
	if upTo != nil {
		resp.UpTo = upTo.Format(dateLayout)
	}
	return resp
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	TransactionID   string          `json:"transaction_id"`
	TransactionType string          `json:"transaction_type"`
	AccountID       string          `json:"account_id"`
	EntryType       string          `json:"entry_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Sequence        int             `json:"sequence"`
	Description     string          `json:"description,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	PostingDate     string          `json:"posting_date"`
	ValueDate       string          `json:"value_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		TransactionID:   e.TransactionID,
		TransactionType: e.TransactionType,
		AccountID:       e.AccountID,
		EntryType:       string(e.EntryType),
		Amount:          e.Amount,
		Currency:        e.Currency,
		Sequence:        e.Sequence,
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		PostingDate:     e.PostingDate.Format(dateLayout),
		ValueDate:       e.ValueDate.Format(dateLayout),
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransactionResponse represents a journal transaction with its entries.
type TransactionResponse struct {
	ID                      string           `json:"id"`
	Type                    string           `json:"type"`
	Status                  string           `json:"status"`
	Currency                string           `json:"currency"`
	TotalAmount             decimal.Decimal  `json:"total_amount"`
	Description             string           `json:"description,omitempty"`
	InitiatorID             string           `json:"initiator_id,omitempty"`
	ReferenceNumber         string           `json:"reference_number,omitempty"`
	FromAccountID           string           `json:"from_account_id,omitempty"`
	ToAccountID             string           `json:"to_account_id,omitempty"`
	IsReversal              bool             `json:"is_reversal"`
	OriginalTransactionID   *string          `json:"original_transaction_id,omitempty"`
	ReversedByTransactionID *string          `json:"reversed_by_transaction_id,omitempty"`
	ReversedAt              *time.Time       `json:"reversed_at,omitempty"`
	PostingDate             string           `json:"posting_date"`
	ValueDate               string           `json:"value_date"`
	CreatedAt               time.Time        `json:"created_at"`
	Entries                 []*EntryResponse `json:"entries"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.LedgerTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                      t.ID,
		Type:                    t.Type,
		Status:                  string(t.Status),
		Currency:                t.Currency,
		TotalAmount:             t.TotalAmount,
		Description:             t.Description,
		InitiatorID:             t.InitiatorID,
		ReferenceNumber:         t.ReferenceNumber,
		FromAccountID:           t.FromAccountID,
		ToAccountID:             t.ToAccountID,
		IsReversal:              t.IsReversal,
		OriginalTransactionID:   t.OriginalTransactionID,
		ReversedByTransactionID: t.ReversedByTransactionID,
		ReversedAt:              t.ReversedAt,
		PostingDate:             t.PostingDate.Format(dateLayout),
		ValueDate:               t.ValueDate.Format(dateLayout),
		CreatedAt:               t.CreatedAt,
		Entries:                 EntriesFromDomain(t.Entries),
	}
}

// EventResponse represents an outbox event in API responses.
type EventResponse struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
}

// EventListResponse is one page of an aggregate's events.
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Page   int              `json:"page"`
	Size   int              `json:"size"`
}

// EventsFromDomain converts outbox events to a paged response.
func EventsFromDomain(events []*domain.OutboxEvent, page, size int) *EventListResponse {
	resp := &EventListResponse{
		Events: make([]*EventResponse, len(events)),
		Page:   page,
		Size:   size,
	}
	for i, e := range events {
		resp.Events[i] = &EventResponse{
			ID:            e.ID,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			EventType:     e.EventType,
			Payload:       e.Payload,
			CreatedAt:     e.CreatedAt,
			PublishedAt:   e.PublishedAt,
		}
	}
	return resp
}

// StatementLineResponse is one statement row.
type StatementLineResponse struct {
	*EntryResponse

	RunningBalance *decimal.Decimal `json:"running_balance,omitempty"`
}

// StatementResponse represents one statement page.
type StatementResponse struct {
	AccountID      string                   `json:"account_id"`
	Currency       string                   `json:"currency"`
	OpeningBalance *decimal.Decimal         `json:"opening_balance,omitempty"`
	ClosingBalance *decimal.Decimal         `json:"closing_balance,omitempty"`
	TotalDebits    decimal.Decimal          `json:"total_debits"`
	TotalCredits   decimal.Decimal          `json:"total_credits"`
	NetChange      decimal.Decimal          `json:"net_change"`
	EntryCount     int                      `json:"entry_count"`
	Page           int                      `json:"page"`
	Size           int                      `json:"size"`
	TotalElements  int64                    `json:"total_elements"`
	TotalPages     int                      `json:"total_pages"`
	Entries        []*StatementLineResponse `json:"entries"`
}

// StatementFromDomain converts a statement page to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	lines := make([]*StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = &StatementLineResponse{
			EntryResponse:  EntryFromDomain(l.Entry),
			RunningBalance: l.RunningBalance,
		}
	}

	return &StatementResponse{
		AccountID:      s.AccountID,
		Currency:       s.Currency,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		TotalDebits:    s.TotalDebits,
		TotalCredits:   s.TotalCredits,
		NetChange:      s.NetChange,
		EntryCount:     len(s.Lines),
		Page:           s.Page,
		Size:           s.Size,
		TotalElements:  s.TotalElements,
		TotalPages:     s.TotalPages,
		Entries:        lines,
	}
}

// ReconciliationResponse represents one account reconciliation.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	CachedBalance     decimal.Decimal `json:"cached_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	Matched           bool            `json:"matched"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// ReconciliationFromDomain converts a reconciliation result to response.
func ReconciliationFromDomain(r *domain.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		CachedBalance:     r.CachedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		Matched:           r.Matched,
		CheckedAt:         r.CheckedAt,
	}
}

// TotalsResponse represents journal-wide totals.
type TotalsResponse struct {
	TotalDebits   decimal.Decimal `json:"total_debits"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	TotalBalances decimal.Decimal `json:"total_balances"`
	JournalNet    decimal.Decimal `json:"journal_net"`
}

// TotalsFromDomain converts ledger totals to response.
func TotalsFromDomain(t domain.LedgerTotals) TotalsResponse {
	return TotalsResponse{
		TotalDebits:   t.TotalDebits,
		TotalCredits:  t.TotalCredits,
		TotalBalances: t.TotalBalances,
		JournalNet:    t.JournalNet,
	}
}

// ConsistencyResponse reports the journal-wide check.
type ConsistencyResponse struct {
	Status     string         `json:"status"`
	Consistent bool           `json:"consistent"`
	Message    string         `json:"message,omitempty"`
	Totals     TotalsResponse `json:"totals"`
}

// ReportResponse represents a full reconciliation report.
type ReportResponse struct {
	GeneratedAt       time.Time                 `json:"generated_at"`
	TotalAccounts     int                       `json:"total_accounts"`
	ReconciledCount   int                       `json:"reconciled_count"`
	UnreconciledCount int                       `json:"unreconciled_count"`
	LedgerConsistent  bool                      `json:"ledger_consistent"`
	Totals            TotalsResponse            `json:"totals"`
	Mismatches        []*ReconciliationResponse `json:"mismatches"`
}

// ReportFromUseCase converts a reconciliation report to response.
func ReportFromUseCase(r *usecase.ReconciliationReport) *ReportResponse {
	mismatches := make([]*ReconciliationResponse, len(r.Mismatches))
	for i, m := range r.Mismatches {
		mismatches[i] = ReconciliationFromDomain(m)
	}

	return &ReportResponse{
		GeneratedAt:       r.GeneratedAt,
		TotalAccounts:     r.TotalAccounts,
		ReconciledCount:   r.ReconciledCount,
		UnreconciledCount: r.UnreconciledCount,
		LedgerConsistent:  r.LedgerConsistent,
		Totals:            TotalsFromDomain(r.Totals),
		Mismatches:        mismatches,
	}
}
