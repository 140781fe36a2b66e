package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/adapter/http/dto"
	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

// BalanceService is the read side used by BalanceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)
	CalculateBalance(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error)
	GetAccountStatement(ctx context.Context, query usecase.StatementQuery) (*domain.Statement, error)
}

// BalanceHandler handles balance and statement requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns the cached balance.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// Calculated sums the journal, optionally up to ?upTo=YYYY-MM-DD.
func (h *BalanceHandler) Calculated(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	upTo, err := dto.ParseDate(r.URL.Query(), "upTo")
	if err != nil {
		writeDomainError(w, "invalid query", err)
		return
	}

	balance, err := h.balanceUC.CalculateBalance(r.Context(), accountID, upTo)
	if err != nil {
		writeDomainError(w, "failed to calculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewCalculatedBalanceResponse(accountID, upTo, balance))
}

// Statement returns one page of the account statement.
func (h *BalanceHandler) Statement(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	query, err := dto.StatementQueryFromValues(accountID, r.URL.Query())
	if err != nil {
		writeDomainError(w, "invalid query", err)
		return
	}

	statement, err := h.balanceUC.GetAccountStatement(r.Context(), query)
	if err != nil {
		writeDomainError(w, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
