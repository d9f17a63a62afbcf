package domain

import (
	"math"
	"time"
)

// DateLayout is the canonical day-precision layout used for storage and display.
const DateLayout = "2006-01-02"

// DaysBetween returns the whole calendar days from start to end
// (negative when end precedes start).
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(e.Sub(s).Hours() / 24))
}

// MustDate parses a YYYY-MM-DD string and panics on failure. Intended for
// fixtures and built-in data only.
func MustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr returns a pointer to t.
func DatePtr(t time.Time) *time.Time {
	return &t
}
