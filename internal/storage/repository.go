// Package storage implements the SQLite-backed ledger and user store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vytraty/internal/core"
	"vytraty/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListExpenses implements ledger.ExpenseLister. Rows come back ascending by
// date, insertion order within a day.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64, w core.DateWindow) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, amount_cents
		   FROM expenses
		  WHERE user_id = ? AND date >= ? AND date <= ?
		  ORDER BY date, id`,
		ownerID, w.Start.String(), w.End.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// SumAmounts implements ledger.ExpenseSummer as an aggregate query. The SUM
// runs over the same integer cents ListExpenses returns, so the two paths
// always agree.
func (r *SQLiteRepository) SumAmounts(ctx context.Context, ownerID int64, w *core.DateWindow) (core.Money, error) {
	var (
		cents int64
		err   error
	)
	if w == nil {
		err = r.db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE user_id = ?`,
			ownerID).Scan(&cents)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
			  WHERE user_id = ? AND date >= ? AND date <= ?`,
			ownerID, w.Start.String(), w.End.String()).Scan(&cents)
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("sum amounts: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// InsertExpense implements ledger.ExpenseWriter.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, ownerID int64, date core.Date, amount core.Money) (core.Expense, error) {
	e := core.Expense{OwnerID: ownerID, Date: date, Amount: amount}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, date, amount_cents) VALUES (?, ?, ?)`,
		ownerID, date.String(), amount.Cents)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"owner_id", ownerID,
		"date", date.String(),
		"amount_cents", amount.Cents)
	return e, nil
}

// DeleteExpense implements ledger.ExpenseDeleter. The owner filter makes a
// foreign record indistinguishable from a missing one.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "owner_id", ownerID)
	return nil
}

// GetExpense retrieves a single expense by id regardless of owner. The worker
// uses it to resolve event payloads.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, amount_cents FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ledger.ErrNotFound
	}
	return e, err
}

// ListUnexported returns expenses not yet mirrored to the export sheet,
// oldest first. The worker calls it on startup to catch missed events.
func (r *SQLiteRepository) ListUnexported(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, amount_cents
		   FROM expenses
		  WHERE exported = 0
		  ORDER BY id
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unexported: %w", err)
	}
	return out, nil
}

// MarkExported flags an expense as written to the export sheet.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET exported = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &dateStr, &e.Amount.Cents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Date = d
	return e, nil
}
