package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vytraty/internal/core"
)

func withUserContext(ctx context.Context, user core.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

// currentUser returns the authenticated user, or the zero User outside a
// session.
func currentUser(ctx context.Context) core.User {
	user, _ := ctx.Value(ctxKeyUser).(core.User)
	return user
}

// anchorDate reads the "d" query parameter (YYYY-MM-DD); an absent or
// malformed value falls back to today.
func anchorDate(r *http.Request, today core.Date) core.Date {
	v := strings.TrimSpace(r.URL.Query().Get("d"))
	if v == "" {
		return today
	}
	d, err := core.ParseDate(v)
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid anchor date, using today", "value", v)
		return today
	}
	return d
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
	}
}

// formatHryvnias renders integer kopecks as "₴1234,56".
func formatHryvnias(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "," + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-₴" + s
	}
	return "₴" + s
}

// formatRate renders a feed rate; a missing pair shows as "n/a".
func formatRate(rate float64) string {
	if rate <= 0 {
		return "n/a"
	}
	return strconv.FormatFloat(rate, 'f', 2, 64)
}

func formatConverted(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func monthName(month int) string {
	return time.Month(month).String()
}
