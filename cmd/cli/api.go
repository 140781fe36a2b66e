package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// errCheckFailed makes the process exit non-zero after printing a report.
var errCheckFailed = errors.New("check failed")

func getJSON(ctx context.Context, opts *options, path string, query url.Values) (int, []byte, error) {
	u := opts.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// show prints the response body indented, failing on non-2xx statuses.
func show(cmd *cobra.Command, opts *options, path string, query url.Values) error {
	status, body, err := getJSON(cmd.Context(), opts, path, query)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("request failed (status %d): %s", status, bytes.TrimSpace(body))
	}
	return printJSON(cmd.OutOrStdout(), body)
}

func printJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func newBalanceCmd(opts *options) *cobra.Command {
	var calculated bool
	var upTo string

	cmd := &cobra.Command{
		Use:   "balance <accountId>",
		Short: "Show the cached balance, or the journal sum with --calculated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/balances/" + url.PathEscape(args[0])
			if !calculated {
				return show(cmd, opts, path, nil)
			}

			query := url.Values{}
			if upTo != "" {
				query.Set("upTo", upTo)
			}
			return show(cmd, opts, path+"/calculated", query)
		},
	}

	cmd.Flags().BoolVar(&calculated, "calculated", false, "Sum the journal instead of reading the cached balance")
	cmd.Flags().StringVar(&upTo, "up-to", "", "Include entries posted on or before this date (YYYY-MM-DD)")
	return cmd
}

func newStatementCmd(opts *options) *cobra.Command {
	var from, to, entryType, keyword string
	var page, size int
	var running bool

	cmd := &cobra.Command{
		Use:   "statement <accountId>",
		Short: "Show one page of the account statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			setIf(query, "startDate", from)
			setIf(query, "endDate", to)
			setIf(query, "type", entryType)
			setIf(query, "keyword", keyword)
			query.Set("page", strconv.Itoa(page))
			query.Set("size", strconv.Itoa(size))
			if running {
				query.Set("runningBalance", "true")
			}
			return show(cmd, opts, "/api/v1/balances/"+url.PathEscape(args[0])+"/statement", query)
		},
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "Start posting date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "End posting date (YYYY-MM-DD)")
	f.StringVar(&entryType, "type", "", "DEBIT or CREDIT")
	f.StringVar(&keyword, "keyword", "", "Match description or reference number")
	f.IntVar(&page, "page", 0, "Page number, zero based")
	f.IntVar(&size, "size", 20, "Page size")
	f.BoolVar(&running, "running-balance", false, "Include running balances")
	return cmd
}

func setIf(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func newReconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [accountId]",
		Short: "Reconcile one account, or every account when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return show(cmd, opts, "/api/v1/ledger/reconciliation/"+url.PathEscape(args[0]), nil)
			}
			return show(cmd, opts, "/api/v1/ledger/reconciliation", nil)
		},
	}
}

func newTransactionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "transaction <transactionId>",
		Short: "Show a journal transaction and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, opts, "/api/v1/ledger/transactions/"+url.PathEscape(args[0]), nil)
		},
	}
}

func newEventsCmd(opts *options) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "events <AccountBalance|Transaction> <id>",
		Short: "List outbox events emitted for an account balance or a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("page", strconv.Itoa(page))
			query.Set("size", strconv.Itoa(size))
			path := "/api/v1/ledger/events/" + url.PathEscape(args[0]) + "/" + url.PathEscape(args[1])
			return show(cmd, opts, path, query)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number, zero based")
	cmd.Flags().IntVar(&size, "size", 20, "Page size")
	return cmd
}

func newConsistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := getJSON(cmd.Context(), opts, "/api/v1/ledger/consistency", nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch status {
			case http.StatusOK:
				fmt.Fprintln(out, "Consistency check PASSED")
			case http.StatusConflict:
				fmt.Fprintln(out, "Consistency check FAILED")
			default:
				return fmt.Errorf("request failed (status %d): %s", status, bytes.TrimSpace(body))
			}

			if err := printJSON(out, body); err != nil {
				return err
			}
			if status != http.StatusOK {
				return errCheckFailed
			}
			return nil
		},
	}
}
