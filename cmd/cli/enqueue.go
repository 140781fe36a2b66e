package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/triobank/ledger/internal/adapter/queue"
	"github.com/triobank/ledger/internal/infrastructure/redis"
)

func newEnqueueCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Put a ledger command on the queue",
	}

	cmd.AddCommand(
		enqueueSubcommand(opts, "record", "Post a transaction (TransactionStarted payload)",
			func(p *queue.Producer, cmd *cobra.Command, data []byte) error {
				var payload queue.TransactionStartedPayload
				if err := decodePayload(data, &payload); err != nil {
					return err
				}
				return p.EnqueueTransactionStarted(cmd.Context(), payload)
			}),
		enqueueSubcommand(opts, "reverse", "Reverse a transaction (CompensationRequired payload)",
			func(p *queue.Producer, cmd *cobra.Command, data []byte) error {
				var payload queue.CompensationRequiredPayload
				if err := decodePayload(data, &payload); err != nil {
					return err
				}
				return p.EnqueueCompensationRequired(cmd.Context(), payload)
			}),
		enqueueSubcommand(opts, "account-created", "Open a zero balance (AccountCreated payload)",
			func(p *queue.Producer, cmd *cobra.Command, data []byte) error {
				var payload queue.AccountCreatedPayload
				if err := decodePayload(data, &payload); err != nil {
					return err
				}
				return p.EnqueueAccountCreated(cmd.Context(), payload)
			}),
		enqueueSubcommand(opts, "account-deleted", "Freeze a zero balance (AccountDeleted payload)",
			func(p *queue.Producer, cmd *cobra.Command, data []byte) error {
				var payload queue.AccountDeletedPayload
				if err := decodePayload(data, &payload); err != nil {
					return err
				}
				return p.EnqueueAccountDeleted(cmd.Context(), payload)
			}),
	)

	return cmd
}

type enqueueFunc func(p *queue.Producer, cmd *cobra.Command, data []byte) error

func enqueueSubcommand(opts *options, use, short string, fn enqueueFunc) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   use + " -f <file.json>",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			redisOpt, err := redis.QueueConnOpt(opts.redisURL)
			if err != nil {
				return err
			}
			client := asynq.NewClient(redisOpt)
			defer client.Close()

			if err := fn(queue.NewProducer(client, opts.queueName, opts.maxRetry), cmd, data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s\n", use)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Payload file, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

func decodePayload(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
