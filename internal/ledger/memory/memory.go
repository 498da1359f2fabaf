// Package memory provides an in-memory ledger store used as the default
// development backend and as the test double for view and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"vytraty/internal/core"
	"vytraty/internal/ledger"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense

	nextUserID int64
	users      map[int64]*userRecord
	sessions   map[string]session
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		nextID:     1,
		nextUserID: 1,
		users:      make(map[int64]*userRecord),
		sessions:   make(map[string]session),
	}
}

func (s *Store) ListExpenses(_ context.Context, ownerID int64, w core.DateWindow) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.items {
		if e.OwnerID == ownerID && w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	// Stable sort keeps insertion order within a day, matching the SQLite
	// backend's ORDER BY date, id.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) SumAmounts(_ context.Context, ownerID int64, w *core.DateWindow) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cents int64
	for _, e := range s.items {
		if e.OwnerID != ownerID {
			continue
		}
		if w != nil && !w.Contains(e.Date) {
			continue
		}
		cents += e.Amount.Cents
	}
	return core.Money{Cents: cents}, nil
}

func (s *Store) InsertExpense(_ context.Context, ownerID int64, date core.Date, amount core.Money) (core.Expense, error) {
	e := core.Expense{OwnerID: ownerID, Date: date, Amount: amount}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.items {
		if e.ID == id && e.OwnerID == ownerID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}
