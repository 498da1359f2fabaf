package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vytraty/internal/auth"
	"vytraty/internal/core"
	"vytraty/internal/ledger"
)

const sessionCookie = "vytraty_session"

// withUser resolves the session cookie into a user and redirects anonymous
// requests to the login page.
func (s *Server) withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			redirectToLogin(w, r)
			return
		}

		user, err := s.users.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ledger.ErrSessionNotFound) {
				slog.ErrorContext(r.Context(), "Session lookup failed", "error", err)
			}
			clearSessionCookie(w)
			redirectToLogin(w, r)
			return
		}

		ctx := withUserContext(r.Context(), user)
		next(w, r.WithContext(ctx))
	}
}

// redirectToLogin sends a full-page redirect even for htmx partial requests.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "signup.html", authPage{})
	case http.MethodPost:
		s.processSignup(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type authPage struct {
	Email string
	Error string
}

func (s *Server) processSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	if err := auth.ValidateEmail(email); err != nil {
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "signup.html",
			authPage{Email: email, Error: "Enter a valid email address"})
		return
	}
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrWeakPassword) {
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "signup.html",
			authPage{Email: email, Error: "Password must be at least 8 characters"})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user, err := s.users.CreateUser(r.Context(), email, hash)
	if errors.Is(err, ledger.ErrEmailTaken) {
		s.renderStatus(w, r, http.StatusConflict, "signup.html",
			authPage{Email: email, Error: "This email is already registered"})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "User creation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID)
	if err := s.startSession(w, r, user); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", authPage{})
	case http.MethodPost:
		s.processLogin(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) processLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	user, hash, err := s.users.GetUserByEmail(r.Context(), email)
	if err != nil || !auth.CheckPassword(password, hash) {
		// Same response for unknown email and wrong password.
		s.renderStatus(w, r, http.StatusUnauthorized, "login.html",
			authPage{Email: email, Error: "Wrong email or password"})
		return
	}

	if err := s.startSession(w, r, user); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.users.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.ErrorContext(r.Context(), "Session delete failed", "error", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user core.User) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.ErrorContext(r.Context(), "Token generation failed", "error", err)
		return err
	}
	if err := s.users.CreateSession(r.Context(), token, user.ID, time.Now().Add(s.sessionTTL)); err != nil {
		slog.ErrorContext(r.Context(), "Session creation failed", "error", err, "user_id", user.ID)
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
