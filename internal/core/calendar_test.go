package core

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   Date
		want Date
	}{
		{NewDate(2024, 3, 4), NewDate(2024, 3, 4)},  // Monday maps to itself
		{NewDate(2024, 3, 6), NewDate(2024, 3, 4)},  // Wednesday
		{NewDate(2024, 3, 3), NewDate(2024, 2, 26)}, // Sunday belongs to prior Monday
		{NewDate(2024, 3, 9), NewDate(2024, 3, 4)},  // Saturday
		{NewDate(2024, 1, 1), NewDate(2024, 1, 1)},  // year boundary Monday
	}
	for i, tc := range cases {
		got := WeekStart(tc.in)
		if !got.Equal(tc.want.Time) {
			t.Fatalf("case %d: WeekStart(%s) = %s, want %s", i, tc.in, got, tc.want)
		}
	}
}

func TestWeekStartIsAlwaysMonday(t *testing.T) {
	d := NewDate(2023, 12, 20)
	for i := 0; i < 60; i++ {
		cur := d.AddDays(i)
		start := WeekStart(cur)
		if start.Weekday() != time.Monday {
			t.Fatalf("WeekStart(%s) = %s is not a Monday", cur, start)
		}
		w := WeekWindow(cur)
		if !w.Contains(cur) {
			t.Fatalf("%s not inside its own week window [%s, %s]", cur, w.Start, w.End)
		}
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(NewDate(2024, 3, 6))
	if !days[0].Equal(NewDate(2024, 3, 4).Time) {
		t.Fatalf("first day = %s, want 2024-03-04", days[0])
	}
	if !days[6].Equal(NewDate(2024, 3, 10).Time) {
		t.Fatalf("last day = %s, want 2024-03-10", days[6])
	}
	for i := 1; i < 7; i++ {
		if !days[i].Equal(days[i-1].AddDays(1).Time) {
			t.Fatalf("days not consecutive at index %d", i)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{2000, 2, 29}, // divisible by 400
		{1900, 2, 28}, // divisible by 100 but not 400
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for i, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Fatalf("case %d: DaysInMonth(%d, %d) = %d, want %d", i, tc.year, tc.month, got, tc.want)
		}
	}
}

func TestMonthStartOffset(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 1, 0}, // Jan 1 2024 is a Monday
		{2024, 3, 4}, // Mar 1 2024 is a Friday
		{2024, 9, 6}, // Sep 1 2024 is a Sunday
		{2024, 2, 3}, // Feb 1 2024 is a Thursday
	}
	for i, tc := range cases {
		got := MonthStartOffset(tc.year, tc.month)
		if got != tc.want {
			t.Fatalf("case %d: MonthStartOffset(%d, %d) = %d, want %d", i, tc.year, tc.month, got, tc.want)
		}
		if got < 0 || got > 6 {
			t.Fatalf("case %d: offset %d out of [0,6]", i, got)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(2024, 2)
	if w.Start.String() != "2024-02-01" || w.End.String() != "2024-02-29" {
		t.Fatalf("MonthWindow(2024, 2) = [%s, %s]", w.Start, w.End)
	}
}
