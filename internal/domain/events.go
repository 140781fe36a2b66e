package domain

import (
	"encoding/json"
	"time"
)

// Outbound event types
const (
	EventTypeBalanceUpdated      = "BalanceUpdated"
	EventTypeTransactionPosted   = "TransactionPosted"
	EventTypeTransactionReversed = "TransactionReversed"
)

// Aggregate types
const (
	AggregateTypeAccountBalance = "AccountBalance"
	AggregateTypeTransaction    = "Transaction"
)

// OutboxEvent is a row written in the same database transaction as the
// journal change it describes.
type OutboxEvent struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
}

// Published reports whether the relay has delivered the event.
func (e *OutboxEvent) Published() bool {
	return e.PublishedAt != nil
}

// BalanceUpdatedEvent payload
type BalanceUpdatedEvent struct {
	AccountID       string `json:"accountId"`
	PreviousBalance string `json:"previousBalance"`
	NewBalance      string `json:"newBalance"`
	Delta           string `json:"delta"`
	Currency        string `json:"currency"`
	UpdatedAt       string `json:"updatedAt"`
}

// TransactionPostedEvent payload
type TransactionPostedEvent struct {
	TransactionID   string `json:"transactionId"`
	TransactionType string `json:"transactionType"`
	TotalAmount     string `json:"totalAmount"`
	Currency        string `json:"currency"`
	PostingDate     string `json:"postingDate"`
	PostedAt        string `json:"postedAt"`
	EntriesCount    int    `json:"entriesCount"`
}

// TransactionReversedEvent payload
type TransactionReversedEvent struct {
	OriginalTransactionID string `json:"originalTransactionId"`
	ReversalTransactionID string `json:"reversalTransactionId"`
	Reason                string `json:"reason"`
	ReversedAt            string `json:"reversedAt"`
}

// NewBalanceUpdatedEvent builds the payload for one projection change.
func NewBalanceUpdatedEvent(c BalanceChange) BalanceUpdatedEvent {
	return BalanceUpdatedEvent{
		AccountID:       c.AccountID,
		PreviousBalance: c.PreviousBalance.String(),
		NewBalance:      c.NewBalance.String(),
		Delta:           c.Delta.String(),
		Currency:        c.Currency,
		UpdatedAt:       c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// NewTransactionPostedEvent builds the payload for a recorded transaction.
func NewTransactionPostedEvent(t *LedgerTransaction, postedAt time.Time) TransactionPostedEvent {
	return TransactionPostedEvent{
		TransactionID:   t.ID,
		TransactionType: t.Type,
		TotalAmount:     t.TotalAmount.String(),
		Currency:        t.Currency,
		PostingDate:     t.PostingDate.Format(time.DateOnly),
		EntriesCount:    len(t.Entries),
		PostedAt:        postedAt.UTC().Format(time.RFC3339Nano),
	}
}
