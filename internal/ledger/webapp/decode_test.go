package webapp

import (
	"encoding/json"
	"testing"

	"gagebu/internal/core"
)

func TestFlexAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{`50000`, 50000},
		{`"50000"`, 50000},
		{`"50,000"`, 50000},
		{`"garbage"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`123.0`, 123},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var a flexAmount
			if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if int64(a) != tc.want {
				t.Fatalf("flexAmount(%s) = %d, want %d", tc.in, a, tc.want)
			}
		})
	}
}

func TestFlexID(t *testing.T) {
	var i flexID
	if err := json.Unmarshal([]byte(`42`), &i); err != nil || i != "42" {
		t.Fatalf("numeric id: %q, %v", i, err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &i); err != nil || i != "abc" {
		t.Fatalf("string id: %q, %v", i, err)
	}
}

func TestDecodeResolvedLabels(t *testing.T) {
	cases := map[string]core.ResolvedType{
		"수입":             core.ResolvedIncome,
		"경비":             core.ResolvedExpense,
		"지출":             core.ResolvedExpense,
		"현금유입":           core.ResolvedCapitalInflow,
		"현금유출":           core.ResolvedCapitalOutflow,
		"income":         core.ResolvedIncome,
		"Capital-Inflow": core.ResolvedCapitalInflow,
	}
	for in, want := range cases {
		if got := decodeResolved(in); got != want {
			t.Fatalf("decodeResolved(%q) = %s, want %s", in, got, want)
		}
	}
	// Unknown labels pass through so strange rows stay visible but sum to zero.
	if got := decodeResolved("transfer"); got != core.ResolvedType("transfer") {
		t.Fatalf("unknown label should pass through, got %s", got)
	}
}

func TestDecodeCategoryLabels(t *testing.T) {
	cases := map[string]core.AccountCategory{
		"수입":      core.CategoryIncome,
		"비용":      core.CategoryExpense,
		"자본":      core.CategoryCapital,
		"자산":      core.CategoryAsset,
		"부채":      core.CategoryLiability,
		"Asset":   core.CategoryAsset,
		"capital": core.CategoryCapital,
	}
	for in, want := range cases {
		if got := decodeCategory(in); got != want {
			t.Fatalf("decodeCategory(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestEncodeResolvedRoundTrip(t *testing.T) {
	for _, rt := range []core.ResolvedType{
		core.ResolvedIncome,
		core.ResolvedExpense,
		core.ResolvedCapitalInflow,
		core.ResolvedCapitalOutflow,
	} {
		if got := decodeResolved(encodeResolved(rt)); got != rt {
			t.Fatalf("round trip %s -> %s", rt, got)
		}
	}
}

func TestIntentOf(t *testing.T) {
	if intentOf(core.ResolvedCapitalOutflow) != core.IntentExpense {
		t.Fatalf("capital outflow must map to expense intent")
	}
	if intentOf(core.ResolvedCapitalInflow) != core.IntentIncome {
		t.Fatalf("capital inflow must map to income intent")
	}
}
