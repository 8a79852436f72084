package core

import "testing"

func TestValidateDraftOK(t *testing.T) {
	n := NewDayNormalizer("UTC")
	d := Draft{
		Date:          "2024-05-01",
		Intent:        "income",
		Amount:        "50,000",
		DebitAccount:  "Cash",
		CreditAccount: "Sales",
	}
	if errs := ValidateDraft(d, n, testCatalog()); !errs.OK() {
		t.Fatalf("expected valid draft, got %v", errs)
	}
}

func TestValidateDraftCollectsAllErrors(t *testing.T) {
	n := NewDayNormalizer("UTC")
	d := Draft{Date: "", Intent: "transfer", Amount: "-5", DebitAccount: "", CreditAccount: "Nope"}
	errs := ValidateDraft(d, n, testCatalog())
	for _, field := range []string{"date", "intent", "amount", "debitAccount", "creditAccount"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing error for %s in %v", field, errs)
		}
	}
}

func TestValidateDraftFieldCases(t *testing.T) {
	n := NewDayNormalizer("UTC")
	base := Draft{
		Date:          "2024-05-01",
		Intent:        "expense",
		Amount:        "1000",
		DebitAccount:  "Rent",
		CreditAccount: "Cash",
	}
	cases := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"garbage date", func(d *Draft) { d.Date = "not-a-date" }, "date"},
		{"empty intent", func(d *Draft) { d.Intent = "" }, "intent"},
		{"zero amount", func(d *Draft) { d.Amount = "0" }, "amount"},
		{"decimal amount", func(d *Draft) { d.Amount = "10.5" }, "amount"},
		{"non-numeric amount", func(d *Draft) { d.Amount = "ten" }, "amount"},
		{"missing credit account", func(d *Draft) { d.CreditAccount = "" }, "creditAccount"},
		{"unknown debit account", func(d *Draft) { d.DebitAccount = "Ghost" }, "debitAccount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := base
			tc.mutate(&d)
			errs := ValidateDraft(d, n, testCatalog())
			if msg, ok := errs[tc.field]; !ok || msg == "" {
				t.Fatalf("expected error on %s, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidateDraftEmptyCatalogRejectsAccounts(t *testing.T) {
	n := NewDayNormalizer("UTC")
	d := Draft{Date: "2024-05-01", Intent: "income", Amount: "100", DebitAccount: "Cash", CreditAccount: "Sales"}
	errs := ValidateDraft(d, n, NewCatalog(nil))
	if _, ok := errs["debitAccount"]; !ok {
		t.Fatalf("expected debitAccount error against empty catalog, got %v", errs)
	}
	if _, ok := errs["creditAccount"]; !ok {
		t.Fatalf("expected creditAccount error against empty catalog, got %v", errs)
	}
}

func TestBuildTransaction(t *testing.T) {
	n := NewDayNormalizer("UTC")
	cat := testCatalog()
	d := Draft{
		Date:          "2024-05-01",
		Intent:        "expense",
		Amount:        "10,000",
		DebitAccount:  "OwnerCapital",
		CreditAccount: "Cash",
		Description:   "drawdown",
	}
	if errs := ValidateDraft(d, n, cat); !errs.OK() {
		t.Fatalf("draft should validate: %v", errs)
	}
	tx := BuildTransaction(d, n, cat)
	if tx.Amount != 10000 {
		t.Fatalf("Amount = %d, want 10000", tx.Amount)
	}
	if tx.Date.String() != "2024-05-01" {
		t.Fatalf("Date = %s", tx.Date)
	}
	if tx.Resolved != ResolvedCapitalOutflow {
		t.Fatalf("Resolved = %s, want capital outflow", tx.Resolved)
	}
}
