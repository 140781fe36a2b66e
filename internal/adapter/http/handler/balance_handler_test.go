package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

type balanceServiceStub struct {
	getFn       func(ctx context.Context, accountID string) (*domain.AccountBalance, error)
	calculateFn func(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error)
	statementFn func(ctx context.Context, query usecase.StatementQuery) (*domain.Statement, error)
}

func (s *balanceServiceStub) GetBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	return s.getFn(ctx, accountID)
}

func (s *balanceServiceStub) CalculateBalance(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error) {
	return s.calculateFn(ctx, accountID, upTo)
}

func (s *balanceServiceStub) GetAccountStatement(ctx context.Context, query usecase.StatementQuery) (*domain.Statement, error) {
	return s.statementFn(ctx, query)
}

func TestBalanceHandler_Get_NotFound(t *testing.T) {
	h := NewBalanceHandler(&balanceServiceStub{
		getFn: func(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
			return nil, domain.ErrBalanceNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/balances/ACC-1", nil), "accountID", "ACC-1")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBalanceHandler_Get_MissingID(t *testing.T) {
	h := NewBalanceHandler(&balanceServiceStub{
		getFn: func(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
			t.Fatal("GetBalance should not be called without an account id")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/balances/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_Calculated_PassesUpTo(t *testing.T) {
	var captured *time.Time
	h := NewBalanceHandler(&balanceServiceStub{
		calculateFn: func(ctx context.Context, accountID string, upTo *time.Time) (decimal.Decimal, error) {
			captured = upTo
			return decimal.NewFromInt(10), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balances/ACC-1/calculated?upTo=2026-02-28", nil)
	req = setChiURLParam(req, "accountID", "ACC-1")
	rec := httptest.NewRecorder()

	h.Calculated(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil || !captured.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected upTo 2026-02-28, got %v", captured)
	}
}

func TestBalanceHandler_Statement_ParsesQuery(t *testing.T) {
	var captured usecase.StatementQuery
	h := NewBalanceHandler(&balanceServiceStub{
		statementFn: func(ctx context.Context, query usecase.StatementQuery) (*domain.Statement, error) {
			captured = query
			return &domain.Statement{AccountID: query.AccountID, Page: query.Page, Size: query.Size}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/balances/ACC-1/statement?startDate=2026-01-01&endDate=2026-01-31&type=DEBIT&keyword=rent&page=2&size=50&runningBalance=true", nil)
	req = setChiURLParam(req, "accountID", "ACC-1")
	rec := httptest.NewRecorder()

	h.Statement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "ACC-1" || captured.EntryType != "DEBIT" || captured.Keyword != "rent" {
		t.Fatalf("unexpected query %+v", captured)
	}
	if captured.Page != 2 || captured.Size != 50 || !captured.IncludeRunningBalance {
		t.Fatalf("unexpected pagination %+v", captured)
	}
	if captured.StartDate == nil || captured.EndDate == nil {
		t.Fatalf("expected both dates, got %+v", captured)
	}
}

func TestBalanceHandler_Statement_InvalidQuery(t *testing.T) {
	h := NewBalanceHandler(&balanceServiceStub{
		statementFn: func(ctx context.Context, query usecase.StatementQuery) (*domain.Statement, error) {
			t.Fatal("GetAccountStatement should not be called for a bad query")
			return nil, nil
		},
	})

	for _, q := range []string{"page=abc", "startDate=01-01-2026", "runningBalance=maybe"} {
		req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/statement?"+q, nil), "accountID", "ACC-1")
		rec := httptest.NewRecorder()

		h.Statement(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}
