package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vytraty/internal/core"
	"vytraty/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "vytraty.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *SQLiteRepository, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), email, "fake-hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "a@example.com")

	day := core.NewDate(2024, 3, 4)
	first, err := repo.InsertExpense(ctx, u.ID, day, core.Money{Cents: 5000})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("store did not assign an id")
	}
	if _, err := repo.InsertExpense(ctx, u.ID, day, core.Money{Cents: 2500}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	w := core.WeekWindow(day)
	items, err := repo.ListExpenses(ctx, u.ID, w)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if got := core.SumByDay(items, day); got.Cents != 7500 {
		t.Fatalf("day sum = %d, want 7500", got.Cents)
	}

	// Aggregate query agrees with the client-side sum.
	total, err := repo.SumAmounts(ctx, u.ID, &w)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total.Cents != core.SumAll(items).Cents {
		t.Fatalf("aggregate %d != list sum %d", total.Cents, core.SumAll(items).Cents)
	}

	if err := repo.DeleteExpense(ctx, u.ID, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ = repo.ListExpenses(ctx, u.ID, w)
	if got := core.SumByDay(items, day); got.Cents != 2500 {
		t.Fatalf("day sum after delete = %d, want 2500", got.Cents)
	}
}

func TestListOrdersAscendingByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "a@example.com")

	for _, d := range []string{"2024-03-08", "2024-03-04", "2024-03-06"} {
		day, _ := core.ParseDate(d)
		if _, err := repo.InsertExpense(ctx, u.ID, day, core.Money{Cents: 100}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	items, err := repo.ListExpenses(ctx, u.ID, core.WeekWindow(core.NewDate(2024, 3, 6)))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-03-04", "2024-03-06", "2024-03-08"}
	for i, e := range items {
		if e.Date.String() != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, e.Date, want[i])
		}
	}
}

func TestInsertRejectsInvalidAmountBeforeStore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "a@example.com")

	for _, cents := range []int64{0, -500} {
		_, err := repo.InsertExpense(ctx, u.ID, core.NewDate(2024, 3, 4), core.Money{Cents: cents})
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("InsertExpense(%d) = %v, want ErrInvalidAmount", cents, err)
		}
	}
	if total, _ := repo.SumAmounts(ctx, u.ID, nil); total.Cents != 0 {
		t.Fatalf("rejected insert reached the store")
	}
}

func TestDeleteIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	owner := newTestUser(t, repo, "a@example.com")
	other := newTestUser(t, repo, "b@example.com")

	e, err := repo.InsertExpense(ctx, owner.ID, core.NewDate(2024, 3, 4), core.Money{Cents: 100})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.DeleteExpense(ctx, other.ID, e.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("foreign delete = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteExpense(ctx, owner.ID, 99999); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("unknown id delete = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteExpense(ctx, owner.ID, e.ID); err != nil {
		t.Fatalf("own delete: %v", err)
	}
}

func TestUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	u, err := repo.CreateUser(ctx, "User@Example.com", "hash-1")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if _, err := repo.CreateUser(ctx, "user@example.com", "hash-2"); !errors.Is(err, ledger.ErrEmailTaken) {
		t.Fatalf("duplicate email = %v, want ledger.ErrEmailTaken", err)
	}

	got, hash, err := repo.GetUserByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID || hash != "hash-1" {
		t.Fatalf("got user %d hash %q", got.ID, hash)
	}
	if _, _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ledger.ErrUserNotFound) {
		t.Fatalf("unknown email = %v, want ledger.ErrUserNotFound", err)
	}

	if err := repo.UpdateDisplayName(ctx, u.ID, "Olena"); err != nil {
		t.Fatalf("update name: %v", err)
	}

	if err := repo.CreateSession(ctx, "tok-live", u.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	su, err := repo.ValidateSession(ctx, "tok-live")
	if err != nil {
		t.Fatalf("validate session: %v", err)
	}
	if su.ID != u.ID || su.DisplayName != "Olena" {
		t.Fatalf("session user = %+v", su)
	}

	if err := repo.CreateSession(ctx, "tok-old", u.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("create expired session: %v", err)
	}
	if _, err := repo.ValidateSession(ctx, "tok-old"); !errors.Is(err, ledger.ErrSessionNotFound) {
		t.Fatalf("expired session = %v, want ledger.ErrSessionNotFound", err)
	}

	if err := repo.DeleteSession(ctx, "tok-live"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := repo.ValidateSession(ctx, "tok-live"); !errors.Is(err, ledger.ErrSessionNotFound) {
		t.Fatalf("deleted session = %v, want ledger.ErrSessionNotFound", err)
	}
}

func TestMarkExported(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := newTestUser(t, repo, "a@example.com")

	e, err := repo.InsertExpense(ctx, u.ID, core.NewDate(2024, 3, 4), core.Money{Cents: 100})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.MarkExported(ctx, e.ID); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	if _, err := repo.GetExpense(ctx, e.ID); err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if _, err := repo.GetExpense(ctx, 42424242); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("unknown expense = %v, want ErrNotFound", err)
	}
}
