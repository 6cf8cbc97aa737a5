// utils/dates.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	DisplayLayout   = "02/01/2006"
	DayMonthLayout  = "02/01"
	clockWithSecond = "15:04:05"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate drops the clock and zone of t, keeping its local calendar day.
func CalendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ShiftDate moves a YYYY-MM-DD date by days.
func ShiftDate(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// DisplayDate turns YYYY-MM-DD into DD/MM/YYYY. Unparseable input is
// returned unchanged.
func DisplayDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format(DisplayLayout)
}

// NormalizeClock accepts "9:00", "09:00" or "09:00:00" and returns "09:00".
func NormalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, clockWithSecond} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q, expected HH:MM", s)
}

// ClockMinutes returns minutes since midnight for an HH:MM clock.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NextBusinessDay is the day after t, or the following Monday when t is a Friday.
func NextBusinessDay(t time.Time) time.Time {
	if t.Weekday() == time.Friday {
		return t.AddDate(0, 0, 3)
	}
	return t.AddDate(0, 0, 1)
}

// MonthBounds returns the first day of month/year and the first day of the
// following month as YYYY-MM-DD.
func MonthBounds(year, month int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return FormatDate(start), FormatDate(start.AddDate(0, 1, 0))
}
