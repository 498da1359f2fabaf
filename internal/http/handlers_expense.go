package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vytraty/internal/core"
	"vytraty/internal/events"
	"vytraty/internal/ledger"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}
	user := currentUser(r.Context())

	date := core.Today(time.Local)
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
			return
		}
		date = d
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	expense, err := s.store.InsertExpense(r.Context(), user.ID, date, core.Money{Cents: cents})
	if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid data: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense insert error", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not save the expense</div>`))
		return
	}

	s.publishEvent(r, events.NewExpenseEvent(events.KindCreated, expense.ID, user.ID))

	w.Header().Set("HX-Trigger", `{"expense:created": {"id": `+strconv.FormatInt(expense.ID, 10)+`, "date": "`+date.String()+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Saved ₴` + template.HTMLEscapeString(expense.Amount.Format()) +
		` on ` + template.HTMLEscapeString(date.String()) + `</div>`))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user := currentUser(r.Context())

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid expense id</div>`))
		return
	}

	err = s.store.DeleteExpense(r.Context(), user.ID, id)
	if errors.Is(err, ledger.ErrNotFound) {
		// Already gone, or not this user's record. Either way nothing changed.
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Expense not found</div>`))
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id, "user_id", user.ID)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not delete the expense</div>`))
		return
	}

	s.publishEvent(r, events.NewExpenseEvent(events.KindDeleted, id, user.ID))

	w.Header().Set("HX-Trigger", `{"expense:deleted": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
}

// publishEvent pushes a mutation event to the queue, best-effort.
func (s *Server) publishEvent(r *http.Request, event *events.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(r.Context(), event); err != nil {
		slog.ErrorContext(r.Context(), "Event publish failed",
			"error", err, "kind", event.Kind, "id", event.ID)
	}
}
