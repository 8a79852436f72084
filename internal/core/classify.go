package core

// Catalog is the chart of accounts keyed by account name. Built once per
// fetch; lookups are O(1) and the miss case is an explicit second return.
type Catalog struct {
	byName map[string]Account
}

// NewCatalog indexes the account list by name. Later duplicates win, matching
// how the remote sheet resolves repeated names (last row read).
func NewCatalog(accounts []Account) Catalog {
	m := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		m[a.Name] = a
	}
	return Catalog{byName: m}
}

func (c Catalog) Lookup(name string) (Account, bool) {
	a, ok := c.byName[name]
	return a, ok
}

func (c Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

func (c Catalog) Len() int {
	return len(c.byName)
}

// Names returns all account names, in map order. Callers that need a stable
// order sort the result themselves.
func (c Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for name := range c.byName {
		out = append(out, name)
	}
	return out
}

// Resolve maps a declared intent plus the referenced accounts' categories to
// the concrete ledger type. The rule is first-match-wins:
//
//	income  + credit account categorized income  -> income
//	income  + credit account categorized capital -> capital inflow
//	expense + debit  account categorized expense -> expense
//	expense + debit  account categorized capital -> capital outflow
//
// Any other category, or an account missing from the catalog (including an
// empty catalog before the first fetch completes), falls through to the
// intent unchanged. Resolve is total: it never fails, upstream validation
// rejects drafts with an unrecognized intent before they get here.
func (c Catalog) Resolve(intent Intent, debitAccount, creditAccount string) ResolvedType {
	switch intent {
	case IntentIncome:
		if credit, ok := c.Lookup(creditAccount); ok {
			switch credit.Category {
			case CategoryIncome:
				return ResolvedIncome
			case CategoryCapital:
				return ResolvedCapitalInflow
			}
		}
		return ResolvedIncome
	case IntentExpense:
		if debit, ok := c.Lookup(debitAccount); ok {
			switch debit.Category {
			case CategoryExpense:
				return ResolvedExpense
			case CategoryCapital:
				return ResolvedCapitalOutflow
			}
		}
		return ResolvedExpense
	}
	// Unrecognized intents are stopped by ValidateDraft; treat a stored one
	// as-is so aggregation can still skip it.
	return ResolvedType(intent)
}

// Classify fills in Resolved on every transaction from its intent and
// referenced accounts. Input order is preserved; the input slice is not
// mutated.
func (c Catalog) Classify(transactions []Transaction) []Transaction {
	out := make([]Transaction, len(transactions))
	for i, t := range transactions {
		t.Resolved = c.Resolve(t.Intent, t.DebitAccount, t.CreditAccount)
		out[i] = t
	}
	return out
}
