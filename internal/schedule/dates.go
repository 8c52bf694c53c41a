package schedule

import (
	"fmt"
	"time"
)

// Accepted input shapes for reservation dates. Everything is collapsed to a
// local-midnight day before storage or comparison, so write and read paths
// share one day-bucket boundary.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.999Z07:00",
	"02-01-2006",
}

// ParseDate normalizes a client-supplied date string to midnight local time.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return DayOf(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// DayOf strips the time-of-day component, keeping the calendar day in local time.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DayKey formats a day for storage and cache keys.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports whether two timestamps fall in the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}
