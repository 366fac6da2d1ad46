package hub

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date format used by every date field.
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day format used by every time field.
	ClockLayout = "15:04"
)

// parseDate validates a YYYY-MM-DD field. Dates are interpreted in UTC.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalid(field, "expected YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

// parseClock validates an HH:MM field and returns the offset from midnight.
func parseClock(field, value string) (time.Duration, error) {
	hour, minute, err := clockParts(field, value)
	if err != nil {
		return 0, err
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// clockParts validates an HH:MM field and returns its hour and minute.
func clockParts(field, value string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, 0, invalid(field, "expected HH:MM, got %q", value)
	}
	return t.Hour(), t.Minute(), nil
}

// dateOf truncates t to its calendar date in UTC, keeping t's wall clock date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// formatDate renders the calendar date of t.
func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// daysBetween returns the whole number of days from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// WeekID returns the ISO-8601 week identifier of t, e.g. "2024-W03".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
