// Package memory is the development and test backend: a seedable in-process
// store implementing the full ledger surface.
package memory

import (
	"context"
	"strconv"
	"sync"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	accounts []core.Account
	items    []core.Transaction
	nextID   int64
}

var _ ledger.Store = (*Store)(nil)

func New(accounts []core.Account) *Store {
	return &Store{accounts: dedupeByName(accounts), nextID: 1}
}

// NewSeeded returns a store with a minimal chart of accounts, enough to run
// the UI without any configuration.
func NewSeeded() *Store {
	return New([]core.Account{
		{Name: "Cash", Category: core.CategoryAsset},
		{Name: "Sales", Category: core.CategoryIncome},
		{Name: "Rent", Category: core.CategoryExpense},
		{Name: "Groceries", Category: core.CategoryExpense},
		{Name: "OwnerCapital", Category: core.CategoryCapital},
		{Name: "Loan", Category: core.CategoryLiability},
	})
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ledger.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = strconv.FormatInt(s.nextID, 10)
	s.nextID++
	s.items = append(s.items, t)
	return t.ID, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == t.ID {
			s.items[i] = t
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func dedupeByName(in []core.Account) []core.Account {
	seen := map[string]struct{}{}
	out := make([]core.Account, 0, len(in))
	for _, a := range in {
		if a.Name == "" {
			continue
		}
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		out = append(out, a)
	}
	return out
}
