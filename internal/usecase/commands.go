package usecase

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
)

// Outcome tells the caller whether a command changed state.
type Outcome int

const (
	// OutcomeApplied means the command committed now.
	OutcomeApplied Outcome = iota + 1
	// OutcomeAlreadyApplied means an earlier delivery already committed it.
	OutcomeAlreadyApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadyApplied:
		return "already_applied"
	default:
		return "unknown"
	}
}

// EntryInput is one requested journal line.
type EntryInput struct {
	AccountID       string
	EntryType       string
	Currency        string
	Description     string
	ReferenceNumber string
	Amount          decimal.Decimal
	Sequence        int
}

// Validate checks the entry shape. Double-entry rules run later.
func (e EntryInput) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.AccountID, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.EntryType, validation.Required, validation.In(string(domain.EntryTypeDebit), string(domain.EntryTypeCredit))),
		validation.Field(&e.Amount, amountPrecision),
	)
}

// amountPrecision keeps amounts within what the money columns store exactly.
var amountPrecision = validation.By(func(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return nil
	}
	return domain.CheckAmountPrecision(amount)
})

// RecordTransactionInput represents a request to post a journal transaction.
type RecordTransactionInput struct {
	PostingDate     time.Time
	ValueDate       time.Time
	TransactionID   string
	TransactionType string
	Currency        string
	Description     string
	InitiatorID     string
	ReferenceNumber string
	FromAccountID   string
	ToAccountID     string
	TotalAmount     decimal.Decimal
	Entries         []EntryInput
}

// Validate checks the command shape.
func (in RecordTransactionInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.TransactionID, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.TransactionType, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Currency, validation.Required, is.CurrencyCode),
		validation.Field(&in.TotalAmount, amountPrecision),
		validation.Field(&in.Entries),
	)
	return wrapValidation(err)
}

// validateID checks only the transaction id, enough to look up an earlier delivery.
func (in RecordTransactionInput) validateID() error {
	return wrapValidation(validation.Validate(in.TransactionID, validation.Required, validation.Length(1, 100)))
}

// ReverseTransactionInput represents a compensation request.
type ReverseTransactionInput struct {
	OriginalTransactionID string
	ReversalTransactionID string
	Reason                string
	FailedStep            string
}

// Validate checks the command shape.
func (in ReverseTransactionInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.OriginalTransactionID, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.ReversalTransactionID, validation.Length(1, 100),
			validation.NotIn(in.OriginalTransactionID).Error("must differ from the original transaction id")),
	)
	return wrapValidation(err)
}

func (in ReverseTransactionInput) reversalID() string {
	if in.ReversalTransactionID != "" {
		return in.ReversalTransactionID
	}
	return in.OriginalTransactionID + ReversalIDSuffix
}

func (in ReverseTransactionInput) reason() string {
	if in.Reason != "" {
		return in.Reason
	}
	return DefaultReversalReason
}

// CreateInitialBalanceInput represents a request to open a zero balance row.
type CreateInitialBalanceInput struct {
	AccountID string
	Currency  string
}

// Validate checks the command shape.
func (in CreateInitialBalanceInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.AccountID, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Currency, validation.Required, is.CurrencyCode),
	)
	return wrapValidation(err)
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
