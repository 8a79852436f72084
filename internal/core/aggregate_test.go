package core

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func day(s ...int) Day {
	return NewDay(s[0], time.Month(s[1]), s[2])
}

func TestAggregateByDaySingleIncome(t *testing.T) {
	txs := []Transaction{
		{Date: day(2024, 5, 1), Intent: IntentIncome, Amount: 50000, DebitAccount: "Cash", CreditAccount: "Sales", Resolved: ResolvedIncome},
	}
	got := AggregateByDay(txs)
	want := map[string]DailyTotal{"2024-05-01": {Income: 50000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateByDay = %v, want %v", got, want)
	}
}

func TestAggregateByDayCapitalOutflow(t *testing.T) {
	txs := []Transaction{
		{Date: day(2024, 5, 1), Intent: IntentExpense, Amount: 10000, DebitAccount: "OwnerCapital", CreditAccount: "Cash", Resolved: ResolvedCapitalOutflow},
	}
	got := AggregateByDay(txs)
	if agg := got["2024-05-01"]; agg.Income != 0 || agg.Expense != 10000 {
		t.Fatalf("capital outflow should count as expense, got %+v", agg)
	}
}

func TestAggregateByDayMixedDay(t *testing.T) {
	txs := []Transaction{
		{Date: day(2024, 5, 1), Amount: 30000, Resolved: ResolvedIncome},
		{Date: day(2024, 5, 1), Amount: 5000, Resolved: ResolvedExpense},
	}
	got := AggregateByDay(txs)
	if agg := got["2024-05-01"]; agg.Income != 30000 || agg.Expense != 5000 {
		t.Fatalf("got %+v, want income 30000 expense 5000", agg)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single day entry, got %d", len(got))
	}
}

func TestAggregateByDayUnrecognizedTypeContributesZero(t *testing.T) {
	txs := []Transaction{
		{Date: day(2024, 5, 2), Amount: 999, Resolved: ResolvedType("transfer")},
	}
	got := AggregateByDay(txs)
	if agg, ok := got["2024-05-02"]; !ok || agg.Income != 0 || agg.Expense != 0 {
		t.Fatalf("unrecognized type must contribute zero to both sums, got %+v ok=%v", agg, ok)
	}
	// Still retrievable via the detail lookup.
	if res := TransactionsOn(txs, day(2024, 5, 2)); len(res) != 1 {
		t.Fatalf("transaction must stay reachable, got %d", len(res))
	}
}

func TestAggregateByDayOrderIndependent(t *testing.T) {
	txs := []Transaction{
		{Date: day(2024, 5, 1), Amount: 100, Resolved: ResolvedIncome},
		{Date: day(2024, 5, 1), Amount: 200, Resolved: ResolvedExpense},
		{Date: day(2024, 5, 2), Amount: 300, Resolved: ResolvedCapitalInflow},
		{Date: day(2024, 5, 3), Amount: 400, Resolved: ResolvedCapitalOutflow},
		{Date: day(2024, 5, 3), Amount: 500, Resolved: ResolvedIncome},
	}
	want := AggregateByDay(txs)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := AggregateByDay(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d changed totals: %v != %v", i, got, want)
		}
	}
}

func TestAggregateByDayAdditive(t *testing.T) {
	a := []Transaction{
		{Date: day(2024, 6, 1), Amount: 100, Resolved: ResolvedIncome},
		{Date: day(2024, 6, 2), Amount: 50, Resolved: ResolvedExpense},
	}
	b := []Transaction{
		{Date: day(2024, 6, 1), Amount: 25, Resolved: ResolvedExpense},
		{Date: day(2024, 6, 3), Amount: 75, Resolved: ResolvedIncome},
	}
	combined := AggregateByDay(append(append([]Transaction{}, a...), b...))
	aggA, aggB := AggregateByDay(a), AggregateByDay(b)

	for key, agg := range combined {
		sum := DailyTotal{
			Income:  aggA[key].Income + aggB[key].Income,
			Expense: aggA[key].Expense + aggB[key].Expense,
		}
		if agg != sum {
			t.Fatalf("day %s: combined %+v != elementwise %+v", key, agg, sum)
		}
	}
}

func TestAggregateByDayEmpty(t *testing.T) {
	if got := AggregateByDay(nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestTransactionsOn(t *testing.T) {
	txs := []Transaction{
		{ID: "a", Date: day(2024, 5, 1)},
		{ID: "b", Date: day(2024, 5, 2)},
		{ID: "c", Date: day(2024, 5, 1)},
	}
	got := TransactionsOn(txs, day(2024, 5, 1))
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("expected [a c] in input order, got %+v", got)
	}
	if empty := TransactionsOn(txs, day(2024, 5, 9)); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestAccountTotals(t *testing.T) {
	txs := []Transaction{
		{Amount: 100, DebitAccount: "Cash", CreditAccount: "Sales"},
		{Amount: 40, DebitAccount: "Rent", CreditAccount: "Cash"},
		{Amount: 60, DebitAccount: "Cash", CreditAccount: "Sales"},
	}
	got := AccountTotals(txs)
	want := []AccountTotal{
		{Account: "Cash", Debit: 160, Credit: 40},
		{Account: "Sales", Credit: 160},
		{Account: "Rent", Debit: 40},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AccountTotals = %+v, want %+v", got, want)
	}
}
