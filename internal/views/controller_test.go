package views

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vytraty/internal/core"
	"vytraty/internal/ledger"
	"vytraty/internal/ledger/memory"
	"vytraty/internal/rates"
)

type countingStore struct {
	ledger.Store
	calls atomic.Int64
}

func (s *countingStore) ListExpenses(ctx context.Context, ownerID int64, w core.DateWindow) ([]core.Expense, error) {
	s.calls.Add(1)
	return s.Store.ListExpenses(ctx, ownerID, w)
}

func (s *countingStore) SumAmounts(ctx context.Context, ownerID int64, w *core.DateWindow) (core.Money, error) {
	s.calls.Add(1)
	return s.Store.SumAmounts(ctx, ownerID, w)
}

type failingStore struct {
	ledger.Store
}

func (failingStore) SumAmounts(context.Context, int64, *core.DateWindow) (core.Money, error) {
	return core.Money{}, errors.New("store down")
}

type staticFetcher struct {
	batch []rates.Snapshot
	err   error
	calls atomic.Int64
}

func (f *staticFetcher) Fetch(context.Context) ([]rates.Snapshot, error) {
	f.calls.Add(1)
	return f.batch, f.err
}

func seedWeek(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	for _, e := range []struct {
		date  string
		cents int64
	}{
		{"2024-03-04", 5000},
		{"2024-03-04", 2500},
		{"2024-03-06", 1000},
		{"2024-03-15", 99900}, // outside the week, inside the month
	} {
		d, err := core.ParseDate(e.date)
		require.NoError(t, err)
		_, err = store.InsertExpense(ctx, 1, d, core.Money{Cents: e.cents})
		require.NoError(t, err)
	}
	return store
}

func TestTrackerWeekView(t *testing.T) {
	ctrl := NewController(seedWeek(t), nil)
	today := core.NewDate(2024, 3, 6)

	view, err := ctrl.Tracker(context.Background(), 1, core.NewDate(2024, 3, 6), today)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", view.WeekStart.String())
	assert.Equal(t, "2024-03-10", view.WeekEnd.String())
	require.Len(t, view.Days, 7)

	monday := view.Days[0]
	assert.Len(t, monday.Expenses, 2)
	assert.Equal(t, int64(7500), monday.Total.Cents)
	assert.False(t, monday.IsToday)

	wednesday := view.Days[2]
	assert.Equal(t, int64(1000), wednesday.Total.Cents)
	assert.True(t, wednesday.IsToday)

	assert.Equal(t, int64(8500), view.WeekTotal.Cents, "record outside the window must not count")
}

func TestTrackerWithoutSessionSkipsStore(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	ctrl := NewController(store, nil)

	view, err := ctrl.Tracker(context.Background(), 0, core.NewDate(2024, 3, 6), core.NewDate(2024, 3, 6))
	require.NoError(t, err)
	assert.Empty(t, view.Days)
	assert.Zero(t, store.calls.Load(), "no session must mean no store calls")
}

func TestCalendarMonthView(t *testing.T) {
	ctrl := NewController(seedWeek(t), nil)
	today := core.NewDate(2024, 3, 6)

	view, err := ctrl.Calendar(context.Background(), 1, core.NewDate(2024, 3, 1), today)
	require.NoError(t, err)

	// March 2024 starts on a Friday: four padding cells, then 31 days.
	require.Len(t, view.Cells, 4+31)
	for i := 0; i < 4; i++ {
		assert.Zero(t, view.Cells[i].Day)
	}
	day4 := view.Cells[4+3] // March 4th
	assert.Equal(t, 4, day4.Day)
	assert.Equal(t, int64(7500), day4.Total.Cents)
	assert.True(t, view.Cells[4+5].IsToday)
	assert.Equal(t, int64(108400), view.MonthTotal.Cents)
}

func TestCurrenciesConvertsMonthTotal(t *testing.T) {
	fetcher := &staticFetcher{batch: []rates.Snapshot{
		{CurrencyCodeA: rates.CodeUSD, CurrencyCodeB: rates.CodeUAH, RateSell: 41.8},
		{CurrencyCodeA: rates.CodeEUR, CurrencyCodeB: rates.CodeUAH, RateCross: 45.5},
	}}
	ctrl := NewController(seedWeek(t), rates.NewCache(fetcher, 0, nil))

	view := ctrl.Currencies(context.Background(), 1, core.NewDate(2024, 3, 6))
	require.NoError(t, view.TotalErr)
	require.NoError(t, view.RatesErr)
	assert.Equal(t, int64(108400), view.MonthTotal.Cents)
	assert.Equal(t, 41.8, view.USDRate)
	assert.InDelta(t, 1084.0/41.8, view.USD, 1e-9)
	assert.InDelta(t, 1084.0/45.5, view.EUR, 1e-9)
}

func TestCurrenciesReportsPartialFailuresDistinctly(t *testing.T) {
	t.Run("rates fail, total survives", func(t *testing.T) {
		fetcher := &staticFetcher{err: &rates.FetchError{Status: 500}}
		ctrl := NewController(seedWeek(t), rates.NewCache(fetcher, 0, nil))

		view := ctrl.Currencies(context.Background(), 1, core.NewDate(2024, 3, 6))
		require.NoError(t, view.TotalErr)
		assert.Equal(t, int64(108400), view.MonthTotal.Cents)
		var fe *rates.FetchError
		require.ErrorAs(t, view.RatesErr, &fe)
	})

	t.Run("total fails, rates survive", func(t *testing.T) {
		fetcher := &staticFetcher{batch: []rates.Snapshot{
			{CurrencyCodeA: rates.CodeUSD, CurrencyCodeB: rates.CodeUAH, RateSell: 41.8},
		}}
		ctrl := NewController(failingStore{Store: memory.New()}, rates.NewCache(fetcher, 0, nil))

		view := ctrl.Currencies(context.Background(), 1, core.NewDate(2024, 3, 6))
		require.Error(t, view.TotalErr)
		require.NoError(t, view.RatesErr)
		assert.Equal(t, 41.8, view.USDRate)
		assert.Zero(t, view.USD, "zero total converts to zero")
	})
}

func TestCurrenciesWithoutSession(t *testing.T) {
	fetcher := &staticFetcher{}
	ctrl := NewController(memory.New(), rates.NewCache(fetcher, 0, nil))

	view := ctrl.Currencies(context.Background(), 0, core.NewDate(2024, 3, 6))
	assert.Zero(t, view.MonthTotal.Cents)
	assert.Zero(t, fetcher.calls.Load(), "no session must mean no feed call")
}
