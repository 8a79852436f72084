package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"gagebu/internal/core"
)

type calendarCell struct {
	Day     int    // 0 renders as a filler cell
	Date    string // normalized day string
	Income  string // formatted, empty when the day has none
	Expense string
	Today   bool
}

type calendarView struct {
	Year      int
	Month     int
	MonthName string

	PrevYear  int
	PrevMonth int
	NextYear  int
	NextMonth int

	Weeks [][]calendarCell

	MonthIncome  string
	MonthExpense string
}

// buildCalendar lays one month's daily totals onto a Sunday-first grid.
func buildCalendar(year, month int, totals map[string]core.DailyTotal, today core.Day) calendarView {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	view := calendarView{
		Year:      year,
		Month:     month,
		MonthName: first.Month().String(),
		PrevYear:  first.AddDate(0, -1, 0).Year(),
		PrevMonth: int(first.AddDate(0, -1, 0).Month()),
		NextYear:  first.AddDate(0, 1, 0).Year(),
		NextMonth: int(first.AddDate(0, 1, 0).Month()),
	}

	week := make([]calendarCell, int(first.Weekday()))
	var monthIncome, monthExpense int64
	for d := 1; d <= daysInMonth; d++ {
		day := core.Day{Year: year, Month: time.Month(month), Date: d}
		cell := calendarCell{
			Day:   d,
			Date:  day.String(),
			Today: day == today,
		}
		if t, ok := totals[cell.Date]; ok {
			if t.Income > 0 {
				cell.Income = core.FormatAmount(t.Income)
			}
			if t.Expense > 0 {
				cell.Expense = core.FormatAmount(t.Expense)
			}
			monthIncome += t.Income
			monthExpense += t.Expense
		}
		week = append(week, cell)
		if len(week) == 7 {
			view.Weeks = append(view.Weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, calendarCell{})
		}
		view.Weeks = append(view.Weeks, week)
	}

	view.MonthIncome = core.FormatAmount(monthIncome)
	view.MonthExpense = core.FormatAmount(monthExpense)
	return view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	today := s.normalizer.Today()
	data := struct {
		Year     int
		Month    int
		Today    string
		Accounts []core.Account
		Intents  []string
	}{
		Year:    today.Year,
		Month:   int(today.Month),
		Today:   today.String(),
		Intents: []string{string(core.IntentIncome), string(core.IntentExpense)},
	}

	// The entry form needs the account dropdowns; the calendar partial loads
	// itself, so a failed snapshot only degrades the form.
	if snap, err := s.snapshot(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error on index", "error", err)
	} else {
		names := snap.Catalog.Names()
		sort.Strings(names)
		for _, name := range names {
			if a, ok := snap.Catalog.Lookup(name); ok {
				data.Accounts = append(data.Accounts, a)
			}
		}
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCalendar renders the month grid partial.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	now := time.Now().In(s.normalizer.Location())
	params := parseMonthParams(r.URL.Query(), now)

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Calendar snapshot error", "error", err,
			"year", params.Year, "month", params.Month)
		_, _ = w.Write([]byte(`<section id="calendar" class="calendar"><div class="placeholder">Failed to load the ledger</div></section>`))
		return
	}

	totals := core.AggregateByDay(snap.Transactions)
	view := buildCalendar(params.Year, params.Month, totals, s.normalizer.Today())

	if err := s.templates.ExecuteTemplate(w, "calendar.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err,
			"template", "calendar.html")
		_, _ = w.Write([]byte(`<section id="calendar" class="calendar"><div class="placeholder">Failed to render the calendar</div></section>`))
	}
}

type dayRow struct {
	ID            string
	Intent        string
	Resolved      string
	Amount        string
	DebitAccount  string
	CreditAccount string
	Description   string
	Note          string
	Inflow        bool
}

type dayView struct {
	Date    string
	Income  string
	Expense string
	Rows    []dayRow
}

// handleDay renders the selected-day detail partial.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	day, err := s.normalizer.Normalize(r.URL.Query().Get("date"))
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid day parameter",
			"date", r.URL.Query().Get("date"), "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
		return
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Day snapshot error", "error", err, "date", day.String())
		_, _ = w.Write([]byte(`<section id="day-detail" class="day-detail"><div class="placeholder">Failed to load the ledger</div></section>`))
		return
	}

	view := dayView{Date: day.String()}
	if t, ok := core.AggregateByDay(snap.Transactions)[day.String()]; ok {
		view.Income = core.FormatAmount(t.Income)
		view.Expense = core.FormatAmount(t.Expense)
	} else {
		view.Income = core.FormatAmount(0)
		view.Expense = core.FormatAmount(0)
	}
	for _, t := range core.TransactionsOn(snap.Transactions, day) {
		view.Rows = append(view.Rows, dayRow{
			ID:            t.ID,
			Intent:        string(t.Intent),
			Resolved:      string(t.Resolved),
			Amount:        core.FormatAmount(t.Amount),
			DebitAccount:  t.DebitAccount,
			CreditAccount: t.CreditAccount,
			Description:   t.Description,
			Note:          t.Note,
			Inflow:        t.Resolved.IsInflow(),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "day.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err,
			"template", "day.html", "date", day.String())
		_, _ = w.Write([]byte(`<section id="day-detail" class="day-detail"><div class="placeholder">Failed to render the day</div></section>`))
	}
}
