package core

// Draft is a transaction as it arrives from the entry form, before parsing.
// All fields are raw strings; ValidateDraft is the only gate between the form
// and the classifier.
type Draft struct {
	Date          string
	Intent        string
	Amount        string
	DebitAccount  string
	CreditAccount string
	Description   string
	Note          string
}

// FieldErrors maps a draft field name to a human-readable message. Every
// violation is collected, not just the first, so the form can mark all bad
// inputs in one round trip.
type FieldErrors map[string]string

func (e FieldErrors) OK() bool {
	return len(e) == 0
}

// ValidateDraft checks a draft against the catalog and returns the full set
// of field errors. An empty map means the draft is acceptable. The catalog
// presence checks intentionally run even when the catalog is empty: a draft
// cannot be saved before accounts have loaded.
func ValidateDraft(d Draft, normalizer DayNormalizer, catalog Catalog) FieldErrors {
	errs := FieldErrors{}

	if d.Date == "" {
		errs["date"] = "date is required"
	} else if _, err := normalizer.Normalize(d.Date); err != nil {
		errs["date"] = "date must be a valid calendar date"
	}

	if !Intent(d.Intent).Valid() {
		errs["intent"] = "intent must be income or expense"
	}

	if _, err := ParseAmount(d.Amount); err != nil {
		errs["amount"] = "amount must be a positive whole number"
	}

	validateAccountField(errs, "debitAccount", d.DebitAccount, catalog)
	validateAccountField(errs, "creditAccount", d.CreditAccount, catalog)

	return errs
}

func validateAccountField(errs FieldErrors, field, name string, catalog Catalog) {
	if name == "" {
		errs[field] = "account is required"
		return
	}
	if !catalog.Has(name) {
		errs[field] = "unknown account: " + name
	}
}

// BuildTransaction converts a validated draft into a classified transaction.
// Callers must have run ValidateDraft first; a draft that failed validation
// still produces a value here, just not a meaningful one.
func BuildTransaction(d Draft, normalizer DayNormalizer, catalog Catalog) Transaction {
	day, _ := normalizer.Normalize(d.Date)
	amount, _ := ParseAmount(d.Amount)
	intent := Intent(d.Intent)
	return Transaction{
		Date:          day,
		Intent:        intent,
		Amount:        amount,
		DebitAccount:  d.DebitAccount,
		CreditAccount: d.CreditAccount,
		Description:   d.Description,
		Note:          d.Note,
		Resolved:      catalog.Resolve(intent, d.DebitAccount, d.CreditAccount),
	}
}
