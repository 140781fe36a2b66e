package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/triobank/ledger/internal/adapter/http/handler"
	"github.com/triobank/ledger/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BalanceHandler     *handler.BalanceHandler
	TransactionHandler *handler.TransactionHandler
	LedgerHandler      *handler.LedgerHandler
	EventHandler       *handler.EventHandler
	HealthHandler      *handler.HealthHandler
	MetricsHandler     http.Handler
	Metrics            middleware.HTTPObserver
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
	AllowedOrigins     []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1, read only
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Balances
		r.Route("/balances/{accountID}", func(r chi.Router) {
			r.Get("/", cfg.BalanceHandler.Get)
			r.Get("/calculated", cfg.BalanceHandler.Calculated)
			r.Get("/statement", cfg.BalanceHandler.Statement)
		})

		// Ledger
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/transactions/{id}", cfg.TransactionHandler.Get)
			r.Get("/reconciliation", cfg.LedgerHandler.Report)
			r.Get("/reconciliation/{accountID}", cfg.LedgerHandler.ReconcileAccount)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/events/{aggregateType}/{aggregateID}", cfg.EventHandler.List)
		})
	})

	return r
}
