package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vytraty/internal/core"
	"vytraty/internal/views"
)

type expenseRow struct {
	ID     int64
	Amount string
}

type trackerDayRow struct {
	Name     string
	Date     string
	DayNum   int
	IsToday  bool
	Total    string
	Expenses []expenseRow
}

type trackerPage struct {
	User      core.User
	Anchor    string
	Prev      string
	Next      string
	WeekStart string
	WeekEnd   string
	WeekTotal string
	Days      []trackerDayRow
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	user := currentUser(r.Context())
	today := core.Today(time.Local)
	anchor := anchorDate(r, today)

	view, err := s.views.Tracker(r.Context(), user.ID, anchor, today)
	if err != nil {
		slog.ErrorContext(r.Context(), "Tracker view failed", "error", err, "user_id", user.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "tracker.html", buildTrackerPage(user, anchor, view))
}

func buildTrackerPage(user core.User, anchor core.Date, view views.TrackerView) trackerPage {
	page := trackerPage{
		User:      user,
		Anchor:    anchor.String(),
		Prev:      anchor.AddDays(-7).String(),
		Next:      anchor.AddDays(7).String(),
		WeekStart: view.WeekStart.String(),
		WeekEnd:   view.WeekEnd.String(),
		WeekTotal: formatHryvnias(view.WeekTotal.Cents),
	}
	for i, day := range view.Days {
		row := trackerDayRow{
			Name:    weekdayNames[i],
			Date:    day.Date.String(),
			DayNum:  day.Date.Day(),
			IsToday: day.IsToday,
			Total:   formatHryvnias(day.Total.Cents),
		}
		for _, e := range day.Expenses {
			row.Expenses = append(row.Expenses, expenseRow{ID: e.ID, Amount: e.Amount.Format()})
		}
		page.Days = append(page.Days, row)
	}
	return page
}

type calendarCellRow struct {
	Day     int
	Total   string
	Spent   bool
	IsToday bool
}

type calendarPage struct {
	User       core.User
	Year       int
	MonthName  string
	Prev       string
	Next       string
	Weekdays   [7]string
	Cells      []calendarCellRow
	MonthTotal string
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	today := core.Today(time.Local)
	anchor := anchorDate(r, today)

	view, err := s.views.Calendar(r.Context(), user.ID, anchor, today)
	if err != nil {
		slog.ErrorContext(r.Context(), "Calendar view failed", "error", err, "user_id", user.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	firstOfMonth := core.NewDate(view.Year, view.Month, 1)
	page := calendarPage{
		User:       user,
		Year:       view.Year,
		MonthName:  monthName(view.Month),
		Prev:       firstOfMonth.AddMonths(-1).String(),
		Next:       firstOfMonth.AddMonths(1).String(),
		Weekdays:   weekdayNames,
		MonthTotal: formatHryvnias(view.MonthTotal.Cents),
	}
	for _, cell := range view.Cells {
		page.Cells = append(page.Cells, calendarCellRow{
			Day:     cell.Day,
			Total:   formatHryvnias(cell.Total.Cents),
			Spent:   cell.Total.Cents > 0,
			IsToday: cell.IsToday,
		})
	}
	s.render(w, r, "calendar.html", page)
}

type currenciesPage struct {
	User       core.User
	MonthName  string
	MonthTotal string
	TotalErr   bool

	USDRate string
	EURRate string
	USD     string
	EUR     string

	RatesErr bool
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	today := core.Today(time.Local)

	view := s.views.Currencies(r.Context(), user.ID, today)
	if view.TotalErr != nil {
		slog.ErrorContext(r.Context(), "Month total failed", "error", view.TotalErr, "user_id", user.ID)
	}
	if view.RatesErr != nil {
		slog.ErrorContext(r.Context(), "Rates fetch failed", "error", view.RatesErr)
	}

	page := currenciesPage{
		User:       user,
		MonthName:  monthName(int(today.Month())),
		MonthTotal: formatHryvnias(view.MonthTotal.Cents),
		TotalErr:   view.TotalErr != nil,
		RatesErr:   view.RatesErr != nil,
	}
	if view.RatesErr == nil {
		page.USDRate = formatRate(view.USDRate)
		page.EURRate = formatRate(view.EURRate)
		page.USD = formatConverted(view.USD)
		page.EUR = formatConverted(view.EUR)
	}
	s.render(w, r, "currencies.html", page)
}

type profilePage struct {
	User       core.User
	TotalSpent string
	Saved      bool
	Error      string
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "profile.html", profilePage{User: user, TotalSpent: s.allTimeTotal(r, user.ID)})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.Form.Get("display_name"))
		if err := s.users.UpdateDisplayName(r.Context(), user.ID, name); err != nil {
			slog.ErrorContext(r.Context(), "Display name update failed", "error", err, "user_id", user.ID)
			s.renderStatus(w, r, http.StatusInternalServerError, "profile.html",
				profilePage{User: user, TotalSpent: s.allTimeTotal(r, user.ID), Error: "Could not save the profile"})
			return
		}
		user.DisplayName = name
		s.render(w, r, "profile.html", profilePage{User: user, TotalSpent: s.allTimeTotal(r, user.ID), Saved: true})
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// allTimeTotal sums the whole ledger for the profile page; a failure shows as
// an empty figure rather than breaking the page.
func (s *Server) allTimeTotal(r *http.Request, ownerID int64) string {
	total, err := s.store.SumAmounts(r.Context(), ownerID, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "All-time total failed", "error", err, "user_id", ownerID)
		return ""
	}
	return formatHryvnias(total.Cents)
}

type weekStats struct {
	WeekTotal string
}

// handleWeekStats renders the week total partial. The tracker page reloads it
// on expense:created and expense:deleted triggers, independent of the grid.
func (s *Server) handleWeekStats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	today := core.Today(time.Local)
	anchor := anchorDate(r, today)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	win := core.WeekWindow(anchor)
	total, err := s.store.SumAmounts(r.Context(), user.ID, &win)
	if err != nil {
		slog.ErrorContext(r.Context(), "Week total failed", "error", err, "user_id", user.ID)
		_, _ = w.Write([]byte(`<div id="week-stats" class="stats error">Week total unavailable</div>`))
		return
	}
	s.render(w, r, "week_stats.html", weekStats{WeekTotal: formatHryvnias(total.Cents)})
}
