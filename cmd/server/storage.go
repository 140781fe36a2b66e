package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/triobank/ledger/internal/adapter/http/handler"
	"github.com/triobank/ledger/internal/adapter/repository/memory"
	postgresRepo "github.com/triobank/ledger/internal/adapter/repository/postgres"
	"github.com/triobank/ledger/internal/infrastructure/config"
	"github.com/triobank/ledger/internal/infrastructure/postgres"
	"github.com/triobank/ledger/internal/usecase"
)

// storage is the set of repositories behind one STORAGE_DRIVER.
type storage struct {
	txManager    usecase.TransactionManager
	transactions usecase.TransactionRepository
	entries      usecase.EntryRepository
	balances     usecase.BalanceRepository
	outbox       usecase.OutboxRepository
	ledger       usecase.LedgerRepository
	retrier      usecase.Retrier
	entryIDs     usecase.IDGenerator
	eventIDs     usecase.IDGenerator
	ping         handler.HealthCheck
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, lg zerolog.Logger) (*storage, error) {
	s := &storage{
		retrier:  postgresRepo.NewRetrier().WithLogger(lg),
		entryIDs: postgresRepo.NewULIDGenerator(),
		eventIDs: postgresRepo.NewUUIDGenerator(),
		close:    func() {},
	}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		s.txManager = memory.NewTxManager(store)
		s.transactions = memory.NewTransactionRepository(store)
		s.entries = memory.NewEntryRepository(store)
		s.balances = memory.NewBalanceRepository(store)
		s.outbox = memory.NewOutboxRepository(store)
		s.ledger = memory.NewLedgerRepository(store)
		lg.Warn().Msg("using in-memory storage, state is lost on restart")

	case config.StoragePostgres:
		if cfg.MigrateOnStart {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		lg.Info().Msg("connected to postgres")

		s.txManager = postgresRepo.NewTxManager(pool).WithLockTimeout(cfg.DatabaseLockTimeout)
		s.transactions = postgresRepo.NewTransactionRepository(pool)
		s.entries = postgresRepo.NewEntryRepository(pool)
		s.balances = postgresRepo.NewBalanceRepository(pool)
		s.outbox = postgresRepo.NewOutboxRepository(pool)
		s.ledger = postgresRepo.NewLedgerRepository(pool)
		s.ping = pool.Ping
		s.close = pool.Close

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return s, nil
}

// healthChecks returns the readiness checks of the storage backend.
func (s *storage) healthChecks() map[string]handler.HealthCheck {
	checks := make(map[string]handler.HealthCheck)
	if s.ping != nil {
		checks["postgres"] = s.ping
	}
	return checks
}
