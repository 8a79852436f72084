package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
)

// handleTransactions is the single write endpoint. The form's action field
// selects the operation: create (default), update or delete.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Malformed request</div>`))
		return
	}

	switch strings.TrimSpace(r.Form.Get("action")) {
	case "", "create":
		s.createTransaction(w, r)
	case "update":
		s.updateTransaction(w, r)
	case "delete":
		s.deleteTransaction(w, r)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Unknown action</div>`))
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error on create", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<div class="error">Ledger unavailable, nothing was saved</div>`))
		return
	}

	draft := draftFromForm(r.Form)
	if errs := core.ValidateDraft(draft, s.normalizer, snap.Catalog); !errs.OK() {
		writeFieldErrors(w, errs)
		return
	}

	t := core.BuildTransaction(draft, s.normalizer, snap.Catalog)
	ref, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err,
			"date", t.Date.String(), "amount", t.Amount)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save the transaction</div>`))
		return
	}

	s.invalidateSnapshot()
	w.Header().Set("HX-Trigger", `{"transaction:saved": {"date": "`+t.Date.String()+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Saved #` + template.HTMLEscapeString(ref) +
		`: ` + template.HTMLEscapeString(core.FormatAmount(t.Amount)) +
		` on ` + template.HTMLEscapeString(t.Date.String()) + `</div>`))
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing transaction id</div>`))
		return
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error on update", "error", err, "id", id)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<div class="error">Ledger unavailable, nothing was saved</div>`))
		return
	}

	draft := draftFromForm(r.Form)
	if errs := core.ValidateDraft(draft, s.normalizer, snap.Catalog); !errs.OK() {
		writeFieldErrors(w, errs)
		return
	}

	t := core.BuildTransaction(draft, s.normalizer, snap.Catalog)
	t.ID = id
	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<div class="error">Transaction not found</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Transaction update error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to update the transaction</div>`))
		return
	}

	s.invalidateSnapshot()
	w.Header().Set("HX-Trigger", `{"transaction:saved": {"date": "`+t.Date.String()+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Updated #` + template.HTMLEscapeString(id) + `</div>`))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing transaction id</div>`))
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<div class="error">Transaction not found</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to delete the transaction</div>`))
		return
	}

	s.invalidateSnapshot()
	w.Header().Set("HX-Trigger", `{"transaction:deleted": {"id": "`+template.JSEscapeString(id)+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Deleted #` + template.HTMLEscapeString(id) + `</div>`))
}

// writeFieldErrors renders every violation so the form can mark all bad
// inputs in one round trip.
func writeFieldErrors(w http.ResponseWriter, errs core.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(`<div class="error"><ul>`)
	for _, f := range fields {
		b.WriteString(`<li data-field="` + template.HTMLEscapeString(f) + `">` +
			template.HTMLEscapeString(errs[f]) + `</li>`)
	}
	b.WriteString(`</ul></div>`)

	w.WriteHeader(http.StatusUnprocessableEntity)
	_, _ = w.Write([]byte(b.String()))
}
