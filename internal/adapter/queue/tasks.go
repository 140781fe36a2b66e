// Package queue carries the ledger's inbound commands over asynq.
package queue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/usecase"
)

// Task types, one per inbound command.
const (
	TypeTransactionStarted   = "ledger:transaction_started"
	TypeCompensationRequired = "ledger:compensation_required"
	TypeAccountCreated       = "ledger:account_created"
	TypeAccountDeleted       = "ledger:account_deleted"
)

// Envelope is the event metadata wrapped around every command payload.
type Envelope[T any] struct {
	Timestamp     time.Time `json:"timestamp"`
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	EventVersion  string    `json:"eventVersion,omitempty"`
	AggregateType string    `json:"aggregateType,omitempty"`
	AggregateID   string    `json:"aggregateId,omitempty"`
	Payload       T         `json:"payload"`
}

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// UnmarshalJSON accepts YYYY-MM-DD, an RFC 3339 timestamp, or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s == "" {
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("date %q: want YYYY-MM-DD", s)
		}
	}
	d.Time = t.UTC()
	return nil
}

// MarshalJSON writes YYYY-MM-DD, or null for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// EntryPayload is one requested journal line.
type EntryPayload struct {
	AccountID       string          `json:"accountId"`
	EntryType       string          `json:"entryType"`
	Currency        string          `json:"currency,omitempty"`
	Description     string          `json:"description,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Sequence        int             `json:"sequence"`
}

// TransactionStartedPayload asks the ledger to post a transaction.
type TransactionStartedPayload struct {
	PostingDate     Date            `json:"postingDate"`
	ValueDate       Date            `json:"valueDate"`
	TransactionID   string          `json:"transactionId"`
	TransactionType string          `json:"transactionType"`
	FromAccountID   string          `json:"fromAccountId,omitempty"`
	ToAccountID     string          `json:"toAccountId,omitempty"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description,omitempty"`
	InitiatorID     string          `json:"initiatorId,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Entries         []EntryPayload  `json:"entries"`
}

// Input maps the payload to the use case command.
func (p TransactionStartedPayload) Input() usecase.RecordTransactionInput {
	entries := make([]usecase.EntryInput, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, usecase.EntryInput{
			AccountID:       e.AccountID,
			EntryType:       e.EntryType,
			Currency:        e.Currency,
			Description:     e.Description,
			ReferenceNumber: e.ReferenceNumber,
			Amount:          e.Amount,
			Sequence:        e.Sequence,
		})
	}

	return usecase.RecordTransactionInput{
		PostingDate:     p.PostingDate.Time,
		ValueDate:       p.ValueDate.Time,
		TransactionID:   p.TransactionID,
		TransactionType: p.TransactionType,
		Currency:        p.Currency,
		Description:     p.Description,
		InitiatorID:     p.InitiatorID,
		ReferenceNumber: p.ReferenceNumber,
		FromAccountID:   p.FromAccountID,
		ToAccountID:     p.ToAccountID,
		TotalAmount:     p.TotalAmount,
		Entries:         entries,
	}
}

// CompensationRequiredPayload asks the ledger to reverse a transaction.
type CompensationRequiredPayload struct {
	TransactionID  string `json:"transactionId"`
	Reason         string `json:"reason,omitempty"`
	FailedStep     string `json:"failedStep,omitempty"`
	FailureDetails string `json:"failureDetails,omitempty"`
	CompensationID string `json:"compensationId,omitempty"`
}

// Input maps the payload to the use case command.
func (p CompensationRequiredPayload) Input() usecase.ReverseTransactionInput {
	return usecase.ReverseTransactionInput{
		OriginalTransactionID: p.TransactionID,
		ReversalTransactionID: p.CompensationID,
		Reason:                p.Reason,
		FailedStep:            p.FailedStep,
	}
}

// AccountCreatedPayload asks the ledger to open a zero balance.
type AccountCreatedPayload struct {
	CreatedAt     time.Time `json:"createdAt"`
	AccountID     string    `json:"accountId"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	CustomerID    string    `json:"customerId,omitempty"`
	AccountType   string    `json:"accountType,omitempty"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
}

// Input maps the payload to the use case command.
func (p AccountCreatedPayload) Input() usecase.CreateInitialBalanceInput {
	return usecase.CreateInitialBalanceInput{
		AccountID: p.AccountID,
		Currency:  p.Currency,
	}
}

// AccountDeletedPayload asks the ledger to freeze a balance.
type AccountDeletedPayload struct {
	DeletedAt time.Time `json:"deletedAt"`
	AccountID string    `json:"accountId"`
	Reason    string    `json:"reason,omitempty"`
}
