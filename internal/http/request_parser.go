package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"gagebu/internal/core"
)

// monthParams holds the year/month pair a calendar partial was asked for.
type monthParams struct {
	Year  int
	Month int
}

// parseMonthParams extracts year and month from query values, falling back
// to the current month in the ledger timezone. An out-of-range month is
// corrected rather than rejected, partials always render something.
func parseMonthParams(query url.Values, now time.Time) monthParams {
	params := monthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 1 && y <= 9999 {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			params.Month = m
		}
	}

	return params
}

// draftFromForm maps the entry form onto a core draft. Values are sanitized
// here once; core validation works on the cleaned strings.
func draftFromForm(form url.Values) core.Draft {
	return core.Draft{
		Date:          sanitizeInput(form.Get("date")),
		Intent:        strings.ToLower(sanitizeInput(form.Get("intent"))),
		Amount:        sanitizeInput(form.Get("amount")),
		DebitAccount:  sanitizeInput(form.Get("debitAccount")),
		CreditAccount: sanitizeInput(form.Get("creditAccount")),
		Description:   sanitizeInput(form.Get("description")),
		Note:          sanitizeInput(form.Get("note")),
	}
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
