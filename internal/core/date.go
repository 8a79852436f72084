package core

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone is the ledger's home zone. Spreadsheet cells holding dates
// come back as UTC timestamps; they are shifted here before truncating to a
// day so that an entry saved late in the evening does not land on the wrong
// calendar cell.
const DefaultTimezone = "Asia/Seoul"

const dayLayout = "2006-01-02"

// Day is a timezone-naive calendar date. The zero value is invalid.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

func NewDay(year int, month time.Month, date int) Day {
	return Day{Year: year, Month: month, Date: date}
}

func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Date == 0
}

// String renders the canonical YYYY-MM-DD grouping key.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

func (d Day) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("invalid month %d", int(d.Month))
	}
	if d.Date < 1 || d.Date > 31 {
		return fmt.Errorf("invalid day of month %d", d.Date)
	}
	return nil
}

// DayNormalizer converts stored date values into calendar days in one fixed
// location. There is exactly one normalization rule for the whole service:
// timestamps shift into loc, then truncate; bare date strings are taken as
// already local.
type DayNormalizer struct {
	loc *time.Location
}

// NewDayNormalizer loads the named zone, falling back to UTC when the name is
// empty or unknown so that parsing stays total.
func NewDayNormalizer(tz string) DayNormalizer {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return DayNormalizer{loc: loc}
}

// Normalize parses a stored date value into a Day. Accepts the plain
// "2006-01-02" form and RFC 3339 timestamps (with or without sub-second
// precision); anything else is an error.
func (n DayNormalizer) Normalize(value string) (Day, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Day{}, ErrEmptyDate
	}
	if t, err := time.ParseInLocation(dayLayout, value, n.loc); err == nil {
		return dayOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Day{}, fmt.Errorf("unparseable date %q: %w", value, err)
	}
	return dayOf(t.In(n.loc)), nil
}

// Location exposes the normalizer's zone, mainly for "today" defaults in the
// UI shell.
func (n DayNormalizer) Location() *time.Location {
	return n.loc
}

// Today returns the current day in the normalizer's zone.
func (n DayNormalizer) Today() Day {
	return dayOf(time.Now().In(n.loc))
}

func dayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Date: d}
}
