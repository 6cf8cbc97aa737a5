package utils

import (
	"testing"
	"time"
)

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"9:00":     "09:00",
		"09:00":    "09:00",
		"18:30:00": "18:30",
		" 7:05 ":   "07:05",
	}
	for in, want := range cases {
		got, err := NormalizeClock(in)
		if err != nil || got != want {
			t.Fatalf("NormalizeClock(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "24:00", "9h", "09:60"} {
		if _, err := NormalizeClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestShiftDateAcrossMonths(t *testing.T) {
	got, err := ShiftDate("2025-01-30", 3)
	if err != nil || got != "2025-02-02" {
		t.Fatalf("expected 2025-02-02, got %q, %v", got, err)
	}
	got, _ = ShiftDate("2025-03-01", -1)
	if got != "2025-02-28" {
		t.Fatalf("expected 2025-02-28, got %q", got)
	}
}

func TestNextBusinessDay(t *testing.T) {
	cases := map[string]string{
		"2025-01-15": "2025-01-16", // Wednesday
		"2025-01-17": "2025-01-20", // Friday
		"2025-01-18": "2025-01-19", // Saturday
	}
	for in, want := range cases {
		d, _ := ParseDate(in)
		if got := FormatDate(NextBusinessDay(d)); got != want {
			t.Fatalf("NextBusinessDay(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, 12)
	if start != "2024-12-01" || end != "2025-01-01" {
		t.Fatalf("unexpected bounds %s..%s", start, end)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 1, 6, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 13, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := DaysBetween(b, a); got != -7 {
		t.Fatalf("expected -7, got %d", got)
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate("2025-01-06"); got != "06/01/2025" {
		t.Fatalf("unexpected %q", got)
	}
	if got := DisplayDate("garbage"); got != "garbage" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
