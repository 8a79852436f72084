package webapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, core.NewDayNormalizer("UTC"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestListTransactions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "getTransactions" {
			t.Errorf("action = %s", got)
		}
		w.Write([]byte(`[
			{"id": 3, "date": "2024-05-01", "type": "수입", "amount": 50000,
			 "debitAccount": "Cash", "creditAccount": "Sales", "description": "", "note": ""},
			{"id": "4", "date": "2024-04-30T16:00:00Z", "type": "현금유출", "amount": "10,000",
			 "debitAccount": "OwnerCapital", "creditAccount": "Cash", "description": "draw", "note": "n"}
		]`))
	})

	txs, err := c.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d", len(txs))
	}
	if txs[0].ID != "3" || txs[0].Amount != 50000 || txs[0].Resolved != core.ResolvedIncome {
		t.Fatalf("first tx: %+v", txs[0])
	}
	if txs[0].Intent != core.IntentIncome {
		t.Fatalf("intent = %s", txs[0].Intent)
	}
	if txs[1].Amount != 10000 || txs[1].Resolved != core.ResolvedCapitalOutflow || txs[1].Intent != core.IntentExpense {
		t.Fatalf("second tx: %+v", txs[1])
	}
	if txs[1].Date.String() != "2024-04-30" {
		t.Fatalf("timestamp day = %s", txs[1].Date)
	}
}

func TestListTransactionsMalformedAmountBecomesZero(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "date": "2024-05-01", "type": "수입", "amount": "n/a",
			"debitAccount": "Cash", "creditAccount": "Sales"}]`))
	})
	txs, err := c.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("malformed amount must not fail the list: %v", err)
	}
	if txs[0].Amount != 0 {
		t.Fatalf("Amount = %d, want 0", txs[0].Amount)
	}
}

func TestListAccounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "getAccounts" {
			t.Errorf("action = %s", got)
		}
		w.Write([]byte(`[
			{"name": "Sales", "type": "수입"},
			{"name": "Cash", "type": "asset"},
			{"name": "OwnerCapital", "type": "자본"}
		]`))
	})
	accounts, err := c.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	want := []core.Account{
		{Name: "Sales", Category: core.CategoryIncome},
		{Name: "Cash", Category: core.CategoryAsset},
		{Name: "OwnerCapital", Category: core.CategoryCapital},
	}
	for i, a := range accounts {
		if a != want[i] {
			t.Fatalf("account %d = %+v, want %+v", i, a, want[i])
		}
	}
}

func TestGetTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "7" {
			t.Errorf("id = %s", got)
		}
		w.Write([]byte(`{"status": "success", "data": {"id": 7, "date": "2024-05-02",
			"type": "경비", "amount": 3000, "debitAccount": "Rent", "creditAccount": "Cash"}}`))
	})
	tx, err := c.GetTransaction(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if tx.ID != "7" || tx.Resolved != core.ResolvedExpense || tx.Intent != core.IntentExpense {
		t.Fatalf("tx = %+v", tx)
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "transaction not found"}`))
	})
	_, err := c.GetTransaction(context.Background(), "999")
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTransaction(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %s", ct)
		}
		r.ParseForm()
		form = r.PostForm
		w.Write([]byte(`{"status": "success", "id": "12"}`))
	})

	id, err := c.CreateTransaction(context.Background(), core.Transaction{
		Date:          core.NewDay(2024, time.May, 1),
		Intent:        core.IntentIncome,
		Amount:        50000,
		DebitAccount:  "Cash",
		CreditAccount: "OwnerCapital",
		Resolved:      core.ResolvedCapitalInflow,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if id != "12" {
		t.Fatalf("id = %s", id)
	}
	data := form.Get("data")
	for _, want := range []string{`"date":"2024-05-01"`, `"type":"현금유입"`, `"amount":50000`} {
		if !strings.Contains(data, want) {
			t.Fatalf("payload %s missing %s", data, want)
		}
	}
}

func TestUpdateTransaction(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		w.Write([]byte(`{"status": "success"}`))
	})
	err := c.UpdateTransaction(context.Background(), core.Transaction{
		ID:            "12",
		Date:          core.NewDay(2024, time.May, 2),
		Intent:        core.IntentExpense,
		Amount:        700,
		DebitAccount:  "Rent",
		CreditAccount: "Cash",
		Resolved:      core.ResolvedExpense,
	})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if form.Get("action") != "updateTransaction" {
		t.Fatalf("action = %s", form.Get("action"))
	}
	if !strings.Contains(form.Get("data"), `"id":"12"`) {
		t.Fatalf("payload missing id: %s", form.Get("data"))
	}
}

func TestUpdateTransactionRequiresID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	if err := c.UpdateTransaction(context.Background(), core.Transaction{}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestDeleteTransaction(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		w.Write([]byte(`{"status": "success"}`))
	})
	if err := c.DeleteTransaction(context.Background(), "5"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if form.Get("action") != "deleteTransaction" || form.Get("id") != "5" {
		t.Fatalf("form = %v", form)
	}
}

func TestUpdateTransactionNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "Transaction not found"}`))
	})
	err := c.UpdateTransaction(context.Background(), core.Transaction{
		ID:     "999",
		Date:   core.NewDay(2024, time.May, 2),
		Intent: core.IntentExpense,
		Amount: 700,
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "transaction not found"}`))
	})
	if err := c.DeleteTransaction(context.Background(), "999"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "sheet is locked"}`))
	})
	if err := c.DeleteTransaction(context.Background(), "5"); err == nil || !strings.Contains(err.Error(), "sheet is locked") {
		t.Fatalf("expected envelope message, got %v", err)
	}
}

func TestServerErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := c.ListTransactions(context.Background()); err == nil {
		t.Fatalf("expected error on 502")
	}
}
