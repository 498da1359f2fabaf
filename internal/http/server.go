// Package http serves the web UI: the week tracker, the month calendar, the
// currencies page and the session endpoints around them.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"vytraty/internal/events"
	"vytraty/internal/ledger"
	"vytraty/internal/views"
	appweb "vytraty/web"
)

// EventPublisher pushes mutation events to the worker queue. Publishing is
// best-effort: a failure is logged and the response proceeds.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *events.ExpenseEvent) error
}

type Server struct {
	http.Server
	templates *template.Template

	store     ledger.Store
	users     ledger.UserStore
	views     *views.Controller
	publisher EventPublisher

	sessionTTL  time.Duration
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

type Options struct {
	Addr       string
	Store      ledger.Store
	Users      ledger.UserStore
	Views      *views.Controller
	Publisher  EventPublisher
	SessionTTL time.Duration
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		store:       opts.Store,
		users:       opts.Users,
		views:       opts.Views,
		publisher:   opts.Publisher,
		sessionTTL:  opts.SessionTTL,
		rateLimiter: newRateLimiter(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/signup", s.withSecurityHeaders(s.handleSignup))
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))

	mux.HandleFunc("/", s.withSecurityHeaders(s.withUser(s.handleTracker)))
	mux.HandleFunc("/calendar", s.withSecurityHeaders(s.withUser(s.handleCalendar)))
	mux.HandleFunc("/currencies", s.withSecurityHeaders(s.withUser(s.handleCurrencies)))
	mux.HandleFunc("/profile", s.withSecurityHeaders(s.withUser(s.handleProfile)))

	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.withUser(s.handleCreateExpense)))
	mux.HandleFunc("/expenses/delete", s.withSecurityHeaders(s.withUser(s.handleDeleteExpense)))

	// UI partials
	mux.HandleFunc("/ui/week-stats", s.withSecurityHeaders(s.withUser(s.handleWeekStats)))

	return s
}

// Shutdown stops the HTTP server and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUser
)

// withSecurityHeaders adds security headers, rate limiting and request
// logging to a handler.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Mutations are rate limited, reads are not.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
