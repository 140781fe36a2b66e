package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func newAPI(t *testing.T, status int, body string, gotPath *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.RequestURI()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBalanceCmd(t *testing.T) {
	var path string
	srv := newAPI(t, http.StatusOK, `{"account_id":"ACC-1","balance":"10"}`, &path)

	out, err := execute(t, "--url", srv.URL, "balance", "ACC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/v1/balances/ACC-1" {
		t.Fatalf("unexpected path %q", path)
	}
	expected := "{\n  \"account_id\": \"ACC-1\",\n  \"balance\": \"10\"\n}\n"
	if out != expected {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestBalanceCmdCalculated(t *testing.T) {
	var path string
	srv := newAPI(t, http.StatusOK, `{}`, &path)

	if _, err := execute(t, "--url", srv.URL, "balance", "ACC-1", "--calculated", "--up-to", "2026-01-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/v1/balances/ACC-1/calculated?upTo=2026-01-31" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestBalanceCmdNotFound(t *testing.T) {
	srv := newAPI(t, http.StatusNotFound, `{"error":"failed to get balance"}`, nil)

	_, err := execute(t, "--url", srv.URL, "balance", "ACC-404")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestStatementCmdQuery(t *testing.T) {
	var path string
	srv := newAPI(t, http.StatusOK, `{}`, &path)

	_, err := execute(t, "--url", srv.URL, "statement", "ACC-1", "--from", "2026-01-01", "--type", "CREDIT", "--running-balance", "--size", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"startDate=2026-01-01", "type=CREDIT", "runningBalance=true", "size=5", "page=0"} {
		if !strings.Contains(path, want) {
			t.Fatalf("expected %q in %q", want, path)
		}
	}
	if strings.Contains(path, "endDate") {
		t.Fatalf("unexpected endDate in %q", path)
	}
}

func TestEventsCmd(t *testing.T) {
	var path string
	srv := newAPI(t, http.StatusOK, `{"events":[],"page":1,"size":5}`, &path)

	if _, err := execute(t, "--url", srv.URL, "events", "AccountBalance", "ACC-1", "--page", "1", "--size", "5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/v1/ledger/events/AccountBalance/ACC-1?page=1&size=5" {
		t.Fatalf("unexpected path %q", path)
	}

	if _, err := execute(t, "--url", srv.URL, "events", "AccountBalance"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestConsistencyCmd(t *testing.T) {
	t.Run("passed", func(t *testing.T) {
		srv := newAPI(t, http.StatusOK, `{"status":"consistent","consistent":true}`, nil)

		out, err := execute(t, "--url", srv.URL, "consistency")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(out, "Consistency check PASSED") {
			t.Fatalf("unexpected output:\n%s", out)
		}
	})

	t.Run("failed", func(t *testing.T) {
		srv := newAPI(t, http.StatusConflict, `{"status":"inconsistent","consistent":false}`, nil)

		out, err := execute(t, "--url", srv.URL, "consistency")
		if !errors.Is(err, errCheckFailed) {
			t.Fatalf("expected errCheckFailed, got %v", err)
		}
		if !strings.HasPrefix(out, "Consistency check FAILED") {
			t.Fatalf("unexpected output:\n%s", out)
		}
	})
}

func TestEnqueueCmd(t *testing.T) {
	mr := miniredis.RunT(t)

	file := filepath.Join(t.TempDir(), "account.json")
	if err := os.WriteFile(file, []byte(`{"accountId":"ACC-7","currency":"USD"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--redis-url", "redis://"+mr.Addr(), "enqueue", "account-created", "-f", file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "enqueued account-created\n" {
		t.Fatalf("unexpected output %q", out)
	}

	pending, err := mr.List("asynq:{ledger}:pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0] != "ledger:account_created:ACC-7" {
		t.Fatalf("unexpected pending tasks %v", pending)
	}
}

func TestEnqueueCmdBadPayload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte(`{not json`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "enqueue", "record", "-f", file); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, args := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"outbox", "purge"}} {
		if _, err := execute(t, args...); !errors.Is(err, errNoDatabaseURL) {
			t.Fatalf("%v: expected errNoDatabaseURL, got %v", args, err)
		}
	}
}
