package core

import (
	"errors"
	"fmt"
	"time"
)

type (
	// Date is a pure calendar date. The embedded time is always midnight UTC;
	// no value in the system carries a time-of-day or a zone.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single dated spending record owned by one user.
	// Expenses are created and deleted, never updated in place.
	Expense struct {
		ID      int64
		OwnerID int64
		Date    Date
		Amount  Money
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidOwner  = errors.New("invalid owner")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in the given location.
func Today(loc *time.Location) Date {
	now := time.Now().In(loc)
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD. This is also the storage encoding.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// AddMonths returns the first day of the month n months away.
// Anchoring to day 1 avoids the Jan 31 + 1 month -> Mar 3 overflow of AddDate.
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year(), int(d.Month())+n, 1)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.OwnerID <= 0 {
		return ErrInvalidOwner
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return e.Amount.Validate()
}
