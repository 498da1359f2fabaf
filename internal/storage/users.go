package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vytraty/internal/core"
	"vytraty/internal/ledger"
)

var _ ledger.UserStore = (*SQLiteRepository)(nil)

// CreateUser inserts a new user and returns it with the assigned id.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, ledger.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}
	return core.User{ID: id, Email: email}, nil
}

// GetUserByEmail returns the user and its password hash for login checks.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		u    core.User
		hash string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash FROM users WHERE email = ?`,
		email).Scan(&u.ID, &u.Email, &u.DisplayName, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, "", ledger.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	return u, hash, nil
}

// UpdateDisplayName changes the user's display name.
func (r *SQLiteRepository) UpdateDisplayName(ctx context.Context, userID int64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ? WHERE id = ?`, name, userID)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrUserNotFound
	}
	return nil
}

// CreateSession stores a session token for the user.
func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// ValidateSession resolves a token to its user. Expired sessions are removed
// on sight and reported as missing.
func (r *SQLiteRepository) ValidateSession(ctx context.Context, token string) (core.User, error) {
	var (
		u         core.User
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.display_name, s.expires_at
		   FROM sessions s JOIN users u ON u.id = s.user_id
		  WHERE s.token = ?`,
		token).Scan(&u.ID, &u.Email, &u.DisplayName, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ledger.ErrSessionNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("validate session: %w", err)
	}

	if time.Now().After(expiresAt) {
		_, _ = r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return core.User{}, ledger.ErrSessionNotFound
	}
	return u, nil
}

// DeleteSession removes a session (logout). Unknown tokens are not an error.
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
