package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL     string
	redisURL    string
	databaseURL string
	queueName   string
	maxRetry    int
	timeout     time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Ledger operator CLI",
		Long:          `A command line interface for inspecting the ledger and feeding it commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", envOr("LEDGER_URL", "http://localhost:8080"), "Base URL of the ledger read API")
	flags.StringVar(&opts.redisURL, "redis-url", envOr("REDIS_URL", "redis://localhost:6379"), "Redis URL of the command queue")
	flags.StringVar(&opts.databaseURL, "database-url", envOr("DATABASE_URL", ""), "PostgreSQL URL for migrate and outbox commands")
	flags.StringVar(&opts.queueName, "queue", envOr("QUEUE_NAME", "ledger"), "Command queue name")
	flags.IntVar(&opts.maxRetry, "max-retry", envInt("WORKER_MAX_RETRY", 5), "Delivery attempts before a command is archived")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newBalanceCmd(opts),
		newStatementCmd(opts),
		newReconcileCmd(opts),
		newConsistencyCmd(opts),
		newTransactionCmd(opts),
		newEventsCmd(opts),
		newEnqueueCmd(opts),
		newMigrateCmd(opts),
		newOutboxCmd(opts),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}
