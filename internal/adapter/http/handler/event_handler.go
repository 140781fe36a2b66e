package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triobank/ledger/internal/adapter/http/dto"
	"github.com/triobank/ledger/internal/domain"
)

// EventService lists outbox events of an aggregate.
type EventService interface {
	ListEvents(ctx context.Context, aggregateType, aggregateID string, page, size int) ([]*domain.OutboxEvent, error)
}

// EventHandler serves the outbox history of balances and transactions.
type EventHandler struct {
	eventUC EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventUC EventService) *EventHandler {
	return &EventHandler{eventUC: eventUC}
}

// List returns one page of events, oldest first.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	aggregateType := chi.URLParam(r, "aggregateType")
	aggregateID := chi.URLParam(r, "aggregateID")

	page, size, err := dto.PageFromValues(r.URL.Query())
	if err != nil {
		writeDomainError(w, "invalid query", err)
		return
	}

	events, err := h.eventUC.ListEvents(r.Context(), aggregateType, aggregateID, page, size)
	if err != nil {
		writeDomainError(w, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EventsFromDomain(events, page, size))
}
