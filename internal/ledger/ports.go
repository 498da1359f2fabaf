// Package ledger defines the ports every expense record store implements.
// The HTTP layer and the view controllers only ever see these interfaces;
// SQLite and the in-memory store are interchangeable behind them.
package ledger

import (
	"context"
	"errors"
	"time"

	"vytraty/internal/core"
)

var (
	// ErrNotFound covers both an unknown expense id and an id owned by
	// somebody else; callers cannot tell the two apart.
	ErrNotFound = errors.New("expense not found")

	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found or expired")
)

type (
	// Store is the record-store contract, keyed by owner id. Implementations
	// keep no durable state of their own beyond the backing store; overlapping
	// reads from different views are independent and never deduplicated.
	Store interface {
		ExpenseLister
		ExpenseSummer
		ExpenseWriter
		ExpenseDeleter
	}

	ExpenseLister interface {
		// ListExpenses returns the owner's expenses inside the window,
		// ascending by date.
		ListExpenses(ctx context.Context, ownerID int64, w core.DateWindow) ([]core.Expense, error)
	}

	ExpenseSummer interface {
		// SumAmounts totals the owner's expenses, over the whole ledger when
		// w is nil. The result matches summing ListExpenses exactly.
		SumAmounts(ctx context.Context, ownerID int64, w *core.DateWindow) (core.Money, error)
	}

	ExpenseWriter interface {
		// InsertExpense stores a new record and returns it with the
		// store-assigned id. A non-positive amount is rejected with
		// core.ErrInvalidAmount before any store work happens.
		InsertExpense(ctx context.Context, ownerID int64, date core.Date, amount core.Money) (core.Expense, error)
	}

	ExpenseDeleter interface {
		// DeleteExpense removes one record. Unknown ids and records owned by
		// another user fail with ErrNotFound.
		DeleteExpense(ctx context.Context, ownerID, id int64) error
	}

	// UserStore holds accounts and their session tokens.
	UserStore interface {
		// CreateUser registers a new account. The email is normalized to
		// lowercase; a duplicate fails with ErrEmailTaken.
		CreateUser(ctx context.Context, email, passwordHash string) (core.User, error)
		// GetUserByEmail returns the user and its password hash for
		// credential checks.
		GetUserByEmail(ctx context.Context, email string) (core.User, string, error)
		UpdateDisplayName(ctx context.Context, userID int64, name string) error

		CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
		// ValidateSession resolves a token to its user; expired and unknown
		// tokens fail with ErrSessionNotFound.
		ValidateSession(ctx context.Context, token string) (core.User, error)
		DeleteSession(ctx context.Context, token string) error
	}
)
