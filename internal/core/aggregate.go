package core

// AggregateByDay groups classified transactions by calendar day and sums the
// income and expense columns per day. Inflow resolved types (income, capital
// inflow) feed the income column, outflow types the expense column; anything
// else contributes zero but stays reachable through TransactionsOn. Days
// without transactions are absent from the result, the UI renders absence as
// "no activity". Summation is commutative, so the result is independent of
// input order.
func AggregateByDay(transactions []Transaction) map[string]DailyTotal {
	totals := make(map[string]DailyTotal)
	for _, t := range transactions {
		key := t.Date.String()
		agg := totals[key]
		switch {
		case t.Resolved.IsInflow():
			agg.Income += t.Amount
		case t.Resolved.IsOutflow():
			agg.Expense += t.Amount
		}
		totals[key] = agg
	}
	return totals
}

// TransactionsOn returns every transaction falling on the given day, in
// input order. A day with no matches yields an empty slice, never an error.
func TransactionsOn(transactions []Transaction, day Day) []Transaction {
	out := []Transaction{}
	for _, t := range transactions {
		if t.Date == day {
			out = append(out, t)
		}
	}
	return out
}

// AccountTotal is one bar pair of the per-account chart: how much moved
// through the account on its debit side and on its credit side.
type AccountTotal struct {
	Account string
	Debit   int64
	Credit  int64
}

// AccountTotals sums amounts per account over both sides of every
// transaction, in first-seen order so the chart stays stable across
// refreshes of the same data.
func AccountTotals(transactions []Transaction) []AccountTotal {
	idx := make(map[string]int)
	var out []AccountTotal
	at := func(name string) *AccountTotal {
		if i, ok := idx[name]; ok {
			return &out[i]
		}
		idx[name] = len(out)
		out = append(out, AccountTotal{Account: name})
		return &out[len(out)-1]
	}
	for _, t := range transactions {
		if t.DebitAccount != "" {
			at(t.DebitAccount).Debit += t.Amount
		}
		if t.CreditAccount != "" {
			at(t.CreditAccount).Credit += t.Amount
		}
	}
	return out
}
