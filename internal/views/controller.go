// Package views builds the view models for the tracker, calendar and
// currencies pages. One controller serves every view; each method is gated on
// the owner id so that an absent session short-circuits all remote calls
// instead of each handler null-checking on its own.
package views

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"vytraty/internal/core"
	"vytraty/internal/ledger"
	"vytraty/internal/rates"
)

type Controller struct {
	store ledger.Store
	rates *rates.Cache
}

func NewController(store ledger.Store, rateCache *rates.Cache) *Controller {
	return &Controller{store: store, rates: rateCache}
}

type (
	// TrackerDay is one column of the week grid.
	TrackerDay struct {
		Date     core.Date
		Expenses []core.Expense
		Total    core.Money
		IsToday  bool
	}

	TrackerView struct {
		Anchor    core.Date
		WeekStart core.Date
		WeekEnd   core.Date
		Days      []TrackerDay
		WeekTotal core.Money
	}

	// CalendarCell is one cell of the month grid; padding cells carry Day 0.
	CalendarCell struct {
		Day     int
		Total   core.Money
		IsToday bool
	}

	CalendarView struct {
		Anchor     core.Date
		Year       int
		Month      int
		Cells      []CalendarCell
		MonthTotal core.Money
	}

	// CurrenciesView reports each leg of its composite fetch separately:
	// a failed total with healthy rates (or the reverse) renders as a
	// partial page, never as one merged error.
	CurrenciesView struct {
		MonthTotal core.Money
		TotalErr   error

		USDRate float64
		EURRate float64
		USD     float64
		EUR     float64
		RatesErr error
	}
)

// Tracker builds the week ledger around the anchor date. A zero owner id
// (no session) yields an empty view without touching the store.
func (c *Controller) Tracker(ctx context.Context, ownerID int64, anchor, today core.Date) (TrackerView, error) {
	w := core.WeekWindow(anchor)
	view := TrackerView{Anchor: anchor, WeekStart: w.Start, WeekEnd: w.End}
	if ownerID == 0 {
		return view, nil
	}

	items, err := c.store.ListExpenses(ctx, ownerID, w)
	if err != nil {
		return view, fmt.Errorf("load week expenses: %w", err)
	}

	buckets := core.BucketByDate(items)
	for _, day := range core.WeekDays(anchor) {
		view.Days = append(view.Days, TrackerDay{
			Date:     day,
			Expenses: buckets[day],
			Total:    core.SumByDay(items, day),
			IsToday:  day.Equal(today.Time),
		})
	}

	total, err := c.store.SumAmounts(ctx, ownerID, &w)
	if err != nil {
		return view, fmt.Errorf("load week total: %w", err)
	}
	view.WeekTotal = total
	return view, nil
}

// Calendar builds the Monday-first month grid around the anchor date.
func (c *Controller) Calendar(ctx context.Context, ownerID int64, anchor, today core.Date) (CalendarView, error) {
	year, month := anchor.Year(), int(anchor.Month())
	view := CalendarView{Anchor: anchor, Year: year, Month: month}
	if ownerID == 0 {
		return view, nil
	}

	items, err := c.store.ListExpenses(ctx, ownerID, core.MonthWindow(year, month))
	if err != nil {
		return view, fmt.Errorf("load month expenses: %w", err)
	}

	for i := 0; i < core.MonthStartOffset(year, month); i++ {
		view.Cells = append(view.Cells, CalendarCell{})
	}
	for day := 1; day <= core.DaysInMonth(year, month); day++ {
		d := core.NewDate(year, month, day)
		view.Cells = append(view.Cells, CalendarCell{
			Day:     day,
			Total:   core.SumByDay(items, d),
			IsToday: d.Equal(today.Time),
		})
	}
	view.MonthTotal = core.SumAll(items)
	return view, nil
}

// Currencies fetches the current-month total and the rate batch concurrently
// and converts the total into USD and EUR. The two legs fail independently;
// errors land in the view model rather than aborting the sibling fetch.
func (c *Controller) Currencies(ctx context.Context, ownerID int64, today core.Date) CurrenciesView {
	var view CurrenciesView
	if ownerID == 0 {
		return view
	}

	w := core.MonthWindow(today.Year(), int(today.Month()))

	var batch []rates.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := c.store.SumAmounts(gctx, ownerID, &w)
		if err != nil {
			view.TotalErr = fmt.Errorf("load month total: %w", err)
			return nil
		}
		view.MonthTotal = total
		return nil
	})
	g.Go(func() error {
		b, err := c.rates.Get(gctx)
		if err != nil {
			view.RatesErr = err
			return nil
		}
		batch = b
		return nil
	})
	_ = g.Wait() // both goroutines report through the view, never through err

	if view.RatesErr == nil {
		view.USDRate = rates.FindRate(batch, rates.CodeUSD, rates.CodeUAH)
		view.EURRate = rates.FindRate(batch, rates.CodeEUR, rates.CodeUAH)
		view.USD = rates.Convert(view.MonthTotal, view.USDRate)
		view.EUR = rates.Convert(view.MonthTotal, view.EURRate)
	}
	return view
}
