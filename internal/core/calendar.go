package core

import "time"

// DateWindow is an inclusive start/end calendar-date pair used to filter
// ledger reads.
type DateWindow struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the window, bounds included.
func (w DateWindow) Contains(d Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}

// WeekStart returns the Monday that starts d's week. Sundays belong to the
// week that started six days earlier.
func WeekStart(d Date) Date {
	offset := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	return d.AddDays(-offset)
}

// WeekDays returns the seven dates of d's week, Monday first.
func WeekDays(d Date) [7]Date {
	start := WeekStart(d)
	var days [7]Date
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// WeekWindow returns the inclusive Monday..Sunday window containing d.
func WeekWindow(d Date) DateWindow {
	start := WeekStart(d)
	return DateWindow{Start: start, End: start.AddDays(6)}
}

// DaysInMonth returns the day count of the given month, leap years included.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthStartOffset returns the zero-based position of day 1 within a
// Monday-first week row: Monday is 0, Sunday is 6.
func MonthStartOffset(year, month int) int {
	wd := NewDate(year, month, 1).Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// MonthWindow returns the inclusive first..last day window of a month.
func MonthWindow(year, month int) DateWindow {
	return DateWindow{
		Start: NewDate(year, month, 1),
		End:   NewDate(year, month, DaysInMonth(year, month)),
	}
}
