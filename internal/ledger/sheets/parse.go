package sheets

import (
	"fmt"
	"strings"

	"gagebu/internal/core"
)

// parseTransactions converts a values matrix (as returned by the Sheets API,
// header row excluded) into transactions. Blank rows, including rows cleared
// by a delete, are skipped; rows with an unparseable date are skipped too
// since they cannot land on any calendar cell.
func parseTransactions(values [][]interface{}, n core.DayNormalizer) []core.Transaction {
	out := make([]core.Transaction, 0, len(values))
	for _, row := range values {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		tx := parseTransactionRow(cols, n)
		if tx.Date.IsZero() {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func parseTransactionRow(cols []string, n core.DayNormalizer) core.Transaction {
	day, err := n.Normalize(safeGet(cols, 1))
	if err != nil {
		day = core.Day{}
	}
	resolved := parseResolved(safeGet(cols, 2))
	return core.Transaction{
		ID:            safeGet(cols, 0),
		Date:          day,
		Intent:        intentOf(resolved),
		Amount:        core.ParseStoredAmount(safeGet(cols, 3)),
		DebitAccount:  safeGet(cols, 4),
		CreditAccount: safeGet(cols, 5),
		Description:   safeGet(cols, 6),
		Note:          safeGet(cols, 7),
		Resolved:      resolved,
	}
}

func parseAccounts(values [][]interface{}) []core.Account {
	out := make([]core.Account, 0, len(values))
	for _, row := range values {
		cols := toStrings(row)
		name := safeGet(cols, 0)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		out = append(out, core.Account{
			Name:     name,
			Category: parseCategory(safeGet(cols, 1)),
		})
	}
	return out
}

// Labels mirror the webapp wire format: the spreadsheet stores Korean labels
// and both writers emit them; decoding accepts the English names as well.
func parseResolved(label string) core.ResolvedType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "수입", "income":
		return core.ResolvedIncome
	case "경비", "지출", "expense":
		return core.ResolvedExpense
	case "현금유입", "capital-inflow":
		return core.ResolvedCapitalInflow
	case "현금유출", "capital-outflow":
		return core.ResolvedCapitalOutflow
	}
	return core.ResolvedType(strings.TrimSpace(label))
}

func formatResolved(t core.ResolvedType) string {
	switch t {
	case core.ResolvedIncome:
		return "수입"
	case core.ResolvedExpense:
		return "경비"
	case core.ResolvedCapitalInflow:
		return "현금유입"
	case core.ResolvedCapitalOutflow:
		return "현금유출"
	}
	return string(t)
}

func parseCategory(label string) core.AccountCategory {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "수입", "income":
		return core.CategoryIncome
	case "비용", "expense":
		return core.CategoryExpense
	case "자산", "asset":
		return core.CategoryAsset
	case "부채", "liability":
		return core.CategoryLiability
	case "자본", "capital":
		return core.CategoryCapital
	}
	return core.AccountCategory(strings.TrimSpace(label))
}

func intentOf(t core.ResolvedType) core.Intent {
	if t.IsOutflow() {
		return core.IntentExpense
	}
	return core.IntentIncome
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
