package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/triobank/ledger/internal/adapter/repository/postgres"
	"github.com/triobank/ledger/internal/infrastructure/postgres"
)

var errNoDatabaseURL = errors.New("--database-url or DATABASE_URL is required")

func newMigrateCmd(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (defaults to the embedded set)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.databaseURL == "" {
					return errNoDatabaseURL
				}
				if err := postgres.RunMigrations(opts.databaseURL, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.databaseURL == "" {
					return errNoDatabaseURL
				}
				if err := postgres.RunMigrationsDown(opts.databaseURL, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
				return nil
			},
		},
	)

	return cmd
}

func newOutboxCmd(opts *options) *cobra.Command {
	var olderThan time.Duration

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete published outbox events older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.databaseURL == "" {
				return errNoDatabaseURL
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			pool, err := postgres.NewPool(cmd.Context(), opts.databaseURL, 2, 0)
			if err != nil {
				return err
			}
			defer pool.Close()

			before := time.Now().UTC().Add(-olderThan)
			n, err := postgresRepo.NewOutboxRepository(pool).DeletePublished(cmd.Context(), before)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d published events before %s\n", n, before.Format(time.RFC3339))
			return nil
		},
	}
	purgeCmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "Minimum age of published events to delete")

	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Outbox maintenance",
	}
	cmd.AddCommand(purgeCmd)
	return cmd
}
