// Package core holds the pure ledger domain: account classification, daily
// aggregation, draft validation and the date/amount parsing rules they share.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered amount string into whole currency
// units. Grouping separators ("1,000,000") and surrounding whitespace are
// stripped; signs, decimals and any other non-digit input are rejected, as is
// zero. The ledger never stores fractional amounts.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseStoredAmount is the permissive read-path variant used when decoding
// rows that already live in the remote store. A malformed cell contributes
// zero instead of aborting the whole refresh; the strict gate is ParseAmount
// at entry time.
func ParseStoredAmount(s string) int64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount renders an amount with thousands separators for display.
func FormatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
