package webapp

import (
	"encoding/json"
	"fmt"
	"strings"

	"gagebu/internal/core"
)

// The spreadsheet stores type and category labels in Korean; rows written by
// this service use the same labels so both writers stay compatible. Decoding
// accepts the English names as well.
var (
	wireResolved = map[core.ResolvedType]string{
		core.ResolvedIncome:         "수입",
		core.ResolvedExpense:        "경비",
		core.ResolvedCapitalInflow:  "현금유입",
		core.ResolvedCapitalOutflow: "현금유출",
	}

	resolvedFromWire = map[string]core.ResolvedType{
		"수입":              core.ResolvedIncome,
		"경비":              core.ResolvedExpense,
		"지출":              core.ResolvedExpense, // legacy rows before the four-way split
		"현금유입":            core.ResolvedCapitalInflow,
		"현금유출":            core.ResolvedCapitalOutflow,
		"income":          core.ResolvedIncome,
		"expense":         core.ResolvedExpense,
		"capital-inflow":  core.ResolvedCapitalInflow,
		"capital-outflow": core.ResolvedCapitalOutflow,
	}

	categoryFromWire = map[string]core.AccountCategory{
		"수입":        core.CategoryIncome,
		"비용":        core.CategoryExpense,
		"자산":        core.CategoryAsset,
		"부채":        core.CategoryLiability,
		"자본":        core.CategoryCapital,
		"income":    core.CategoryIncome,
		"expense":   core.CategoryExpense,
		"asset":     core.CategoryAsset,
		"liability": core.CategoryLiability,
		"capital":   core.CategoryCapital,
	}
)

// flexAmount tolerates the endpoint returning amounts as JSON numbers or as
// strings with grouping separators. A malformed cell decodes to zero rather
// than failing the whole list; rejecting bad amounts is the entry form's job.
type flexAmount int64

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*a = flexAmount(core.ParseStoredAmount(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*a = 0
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		// Fractional amounts do not exist in this ledger; truncate.
		if f, ferr := n.Float64(); ferr == nil {
			*a = flexAmount(int64(f))
			return nil
		}
		*a = 0
		return nil
	}
	*a = flexAmount(v)
	return nil
}

// flexID tolerates numeric and string ids.
type flexID string

func (i *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*i = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*i = flexID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unexpected id %s", s)
	}
	*i = flexID(n.String())
	return nil
}

type transactionDTO struct {
	ID            flexID     `json:"id,omitempty"`
	Date          string     `json:"date"`
	Type          string     `json:"type"`
	Amount        flexAmount `json:"amount"`
	DebitAccount  string     `json:"debitAccount"`
	CreditAccount string     `json:"creditAccount"`
	Description   string     `json:"description"`
	Note          string     `json:"note"`
}

type accountDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		Date:          t.Date.String(),
		Type:          encodeResolved(t.Resolved),
		Amount:        flexAmount(t.Amount),
		DebitAccount:  t.DebitAccount,
		CreditAccount: t.CreditAccount,
		Description:   t.Description,
		Note:          t.Note,
	}
}

func encodeResolved(t core.ResolvedType) string {
	if label, ok := wireResolved[t]; ok {
		return label
	}
	return string(t)
}

func decodeResolved(label string) core.ResolvedType {
	if t, ok := resolvedFromWire[strings.ToLower(strings.TrimSpace(label))]; ok {
		return t
	}
	return core.ResolvedType(strings.TrimSpace(label))
}

func decodeCategory(label string) core.AccountCategory {
	if c, ok := categoryFromWire[strings.ToLower(strings.TrimSpace(label))]; ok {
		return c
	}
	return core.AccountCategory(strings.TrimSpace(label))
}

// intentOf recovers the user-level direction from a stored resolved type so
// the classifier can re-derive the type against the current catalog.
func intentOf(t core.ResolvedType) core.Intent {
	if t.IsOutflow() {
		return core.IntentExpense
	}
	return core.IntentIncome
}

func (d transactionDTO) toDomain(n core.DayNormalizer) core.Transaction {
	day, err := n.Normalize(d.Date)
	if err != nil {
		day = core.Day{}
	}
	resolved := decodeResolved(d.Type)
	return core.Transaction{
		ID:            string(d.ID),
		Date:          day,
		Intent:        intentOf(resolved),
		Amount:        int64(d.Amount),
		DebitAccount:  d.DebitAccount,
		CreditAccount: d.CreditAccount,
		Description:   d.Description,
		Note:          d.Note,
		Resolved:      resolved,
	}
}

func (d accountDTO) toDomain() core.Account {
	return core.Account{
		Name:     strings.TrimSpace(d.Name),
		Category: decodeCategory(d.Type),
	}
}
