package core

import (
	"errors"
	"strings"
)

const (
	CategoryIncome    AccountCategory = "income"
	CategoryExpense   AccountCategory = "expense"
	CategoryAsset     AccountCategory = "asset"
	CategoryLiability AccountCategory = "liability"
	CategoryCapital   AccountCategory = "capital"
)

const (
	IntentIncome  Intent = "income"
	IntentExpense Intent = "expense"
)

const (
	ResolvedIncome         ResolvedType = "income"
	ResolvedExpense        ResolvedType = "expense"
	ResolvedCapitalInflow  ResolvedType = "capital-inflow"
	ResolvedCapitalOutflow ResolvedType = "capital-outflow"
)

type (
	// AccountCategory is the chart-of-accounts category declared for an account.
	AccountCategory string

	// Intent is the user-declared direction of a transaction, entered via the
	// form before account-based classification runs.
	Intent string

	// ResolvedType is the final ledger classification of a transaction after
	// applying account-category rules. Distinct from Intent.
	ResolvedType string

	Account struct {
		Name     string
		Category AccountCategory
	}

	Transaction struct {
		ID            string
		Date          Day
		Intent        Intent
		Amount        int64 // whole currency units, no minor unit
		DebitAccount  string
		CreditAccount string
		Description   string
		Note          string
		Resolved      ResolvedType
	}

	// DailyTotal is the calendar-cell pair for one day. Values are positive
	// sums; a day with no entries has no DailyTotal at all.
	DailyTotal struct {
		Income  int64
		Expense int64
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidIntent  = errors.New("invalid intent")
	ErrEmptyDate      = errors.New("empty date")
	ErrEmptyAccount   = errors.New("empty account")
	ErrUnknownAccount = errors.New("account not in catalog")
)

func (i Intent) Valid() bool {
	return i == IntentIncome || i == IntentExpense
}

func (c AccountCategory) Valid() bool {
	switch c {
	case CategoryIncome, CategoryExpense, CategoryAsset, CategoryLiability, CategoryCapital:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccount
	}
	if !a.Category.Valid() {
		return errors.New("invalid account category: " + string(a.Category))
	}
	return nil
}

// IsInflow reports whether the resolved type contributes to a day's income
// column. CapitalInflow counts as money in even though it is not operating
// income.
func (t ResolvedType) IsInflow() bool {
	return t == ResolvedIncome || t == ResolvedCapitalInflow
}

// IsOutflow reports whether the resolved type contributes to a day's expense
// column.
func (t ResolvedType) IsOutflow() bool {
	return t == ResolvedExpense || t == ResolvedCapitalOutflow
}
