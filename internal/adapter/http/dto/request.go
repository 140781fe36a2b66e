package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/internal/usecase"
)

// ParseDate parses an optional YYYY-MM-DD query value.
func ParseDate(values url.Values, key string) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrValidation, key)
	}
	return &t, nil
}

// StatementQueryFromValues builds a statement query from URL parameters:
// startDate, endDate, type, keyword, page, size and runningBalance.
func StatementQueryFromValues(accountID string, values url.Values) (usecase.StatementQuery, error) {
	query := usecase.StatementQuery{
		AccountID: accountID,
		EntryType: values.Get("type"),
		Keyword:   values.Get("keyword"),
	}

	var err error
	if query.StartDate, err = ParseDate(values, "startDate"); err != nil {
		return query, err
	}
	if query.EndDate, err = ParseDate(values, "endDate"); err != nil {
		return query, err
	}
	if query.Page, err = parseInt(values, "page"); err != nil {
		return query, err
	}
	if query.Size, err = parseInt(values, "size"); err != nil {
		return query, err
	}

	if raw := values.Get("runningBalance"); raw != "" {
		query.IncludeRunningBalance, err = strconv.ParseBool(raw)
		if err != nil {
			return query, fmt.Errorf("%w: runningBalance must be a boolean", domain.ErrValidation)
		}
	}

	return query, nil
}

// PageFromValues reads the optional page and size parameters, normalized to
// the pagination defaults.
func PageFromValues(values url.Values) (int, int, error) {
	page, err := parseInt(values, "page")
	if err != nil {
		return 0, 0, err
	}
	size, err := parseInt(values, "size")
	if err != nil {
		return 0, 0, err
	}
	page, size = domain.ValidatePagination(page, size)
	return page, size, nil
}

// parseInt returns zero for a missing value so pagination defaults apply.
func parseInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, key)
	}
	return i, nil
}
