package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/triobank/ledger/internal/domain"
	"github.com/triobank/ledger/tests/testutil"
)

func TestOutboxEventsFollowCommit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	l := testutil.NewLedger(testutil.NewTestDB(t))

	// ACC-Z sorts after ACC-A, so its BalanceUpdated comes second.
	if _, err := l.Ledger.RecordTransaction(ctx, testutil.Transfer("TXN-1", "ACC-Z", "ACC-A", "12")); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	events, err := l.Outbox.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	want := []struct{ eventType, aggregateID string }{
		{domain.EventTypeBalanceUpdated, "ACC-A"},
		{domain.EventTypeBalanceUpdated, "ACC-Z"},
		{domain.EventTypeTransactionPosted, "TXN-1"},
	}
	for i, w := range want {
		if events[i].EventType != w.eventType || events[i].AggregateID != w.aggregateID {
			t.Fatalf("event %d = %s/%s, want %s/%s", i, events[i].EventType, events[i].AggregateID, w.eventType, w.aggregateID)
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(events[0].Payload, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}

	if err := l.Outbox.MarkPublished(ctx, events[0].ID, events[0].CreatedAt); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	remaining, err := l.Outbox.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 unpublished events, got %d", len(remaining))
	}
}

func TestJournalEntriesAreImmutable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	l := testutil.NewLedger(db)

	if _, err := l.Ledger.RecordTransaction(ctx, testutil.Transfer("TXN-1", "ACC-A", "ACC-B", "1")); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	if _, err := db.Pool.Exec(ctx, `UPDATE ledger_entries SET amount = 2 WHERE transaction_id = 'TXN-1'`); err == nil {
		t.Fatal("expected update of a journal entry to fail")
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM ledger_entries WHERE transaction_id = 'TXN-1'`); err == nil {
		t.Fatal("expected delete of a journal entry to fail")
	}
}
