package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
)

func TestCreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	id, err := s.CreateTransaction(ctx, core.Transaction{
		Date:          core.NewDay(2024, time.May, 1),
		Intent:        core.IntentExpense,
		Amount:        5000,
		DebitAccount:  "Rent",
		CreditAccount: "Cash",
		Resolved:      core.ResolvedExpense,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetTransaction(ctx, id)
	if err != nil || got.Amount != 5000 {
		t.Fatalf("get: %+v, %v", got, err)
	}

	got.Amount = 7000
	if err := s.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.GetTransaction(ctx, id)
	if got.Amount != 7000 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, id); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMissingTransactionOperations(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()
	if _, err := s.GetTransaction(ctx, "42"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := s.UpdateTransaction(ctx, core.Transaction{ID: "42"}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "42"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
}

func TestListAccountsDedupes(t *testing.T) {
	s := New([]core.Account{
		{Name: "Cash", Category: core.CategoryAsset},
		{Name: "Cash", Category: core.CategoryCapital},
		{Name: "", Category: core.CategoryAsset},
	})
	accounts, err := s.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Category != core.CategoryAsset {
		t.Fatalf("accounts = %+v", accounts)
	}
}

func TestListTransactionsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()
	s.CreateTransaction(ctx, core.Transaction{Amount: 1})
	list, _ := s.ListTransactions(ctx)
	list[0].Amount = 999
	again, _ := s.ListTransactions(ctx)
	if again[0].Amount != 1 {
		t.Fatalf("internal state mutated through returned slice")
	}
}
