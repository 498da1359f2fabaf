package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"50", 5000, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("case %d (%q): got %d, want %d", i, tc.in, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("case %d (%q): got %v, want ErrInvalidAmount", i, tc.in, err)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{7500, "75.00"},
		{1, "0.01"},
		{123456, "1234.56"},
		{-250, "-2.50"},
	}
	for i, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format(); got != tc.want {
			t.Fatalf("case %d: Format(%d) = %q, want %q", i, tc.cents, got, tc.want)
		}
	}
}
