package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsRecorded     *prometheus.CounterVec
	TransactionsReversed     prometheus.Counter
	IdempotentSkips          *prometheus.CounterVec
	BalanceUpdates           prometheus.Counter
	OutboxEventsEmitted      *prometheus.CounterVec
	ReconciliationMismatches prometheus.Counter

	// Command queue metrics
	QueueTasks        *prometheus.CounterVec
	QueueTaskDuration *prometheus.HistogramVec

	// Outbox relay metrics
	OutboxEventsPublished *prometheus.CounterVec
	OutboxRelayErrors     prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates all Prometheus metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_recorded_total",
				Help: "Total number of transactions posted to the journal",
			},
			[]string{"transaction_type"},
		),
		TransactionsReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_reversed_total",
			Help: "Total number of transactions reversed",
		}),
		IdempotentSkips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_idempotent_skips_total",
				Help: "Commands acknowledged without effect because they were already applied",
			},
			[]string{"operation"},
		),
		BalanceUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_updates_total",
			Help: "Total number of balance rows updated",
		}),
		OutboxEventsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_outbox_events_emitted_total",
				Help: "Total outbox events written by event type",
			},
			[]string{"event_type"},
		),
		ReconciliationMismatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_mismatches_total",
			Help: "Accounts whose cached balance differed from the journal",
		}),

		// Command queue metrics
		QueueTasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_queue_tasks_total",
				Help: "Processed command tasks by type and status",
			},
			[]string{"task_type", "status"},
		),
		QueueTaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_queue_task_duration_seconds",
				Help:    "Command task processing duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"task_type"},
		),

		// Outbox relay metrics
		OutboxEventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_outbox_events_published_total",
				Help: "Total outbox events delivered to the broker",
			},
			[]string{"event_type"},
		),
		OutboxRelayErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_relay_errors_total",
			Help: "Total outbox relay failures",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// TransactionRecorded implements usecase.MetricsRecorder.
func (m *Metrics) TransactionRecorded(transactionType string) {
	m.TransactionsRecorded.WithLabelValues(transactionType).Inc()
}

// TransactionReversed implements usecase.MetricsRecorder.
func (m *Metrics) TransactionReversed() {
	m.TransactionsReversed.Inc()
}

// IdempotentSkip implements usecase.MetricsRecorder.
func (m *Metrics) IdempotentSkip(operation string) {
	m.IdempotentSkips.WithLabelValues(operation).Inc()
}

// BalanceUpdated implements usecase.MetricsRecorder.
func (m *Metrics) BalanceUpdated() {
	m.BalanceUpdates.Inc()
}

// OutboxEventEmitted implements usecase.MetricsRecorder.
func (m *Metrics) OutboxEventEmitted(eventType string) {
	m.OutboxEventsEmitted.WithLabelValues(eventType).Inc()
}

// ReconciliationMismatch implements usecase.MetricsRecorder.
func (m *Metrics) ReconciliationMismatch() {
	m.ReconciliationMismatches.Inc()
}

// TaskProcessed records one command task outcome.
func (m *Metrics) TaskProcessed(taskType, status string, took time.Duration) {
	m.QueueTasks.WithLabelValues(taskType, status).Inc()
	m.QueueTaskDuration.WithLabelValues(taskType).Observe(took.Seconds())
}

// EventPublished records a relayed outbox event.
func (m *Metrics) EventPublished(eventType string) {
	m.OutboxEventsPublished.WithLabelValues(eventType).Inc()
}

// RelayFailed records an outbox relay error.
func (m *Metrics) RelayFailed() {
	m.OutboxRelayErrors.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, took time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(took.Seconds())
}
