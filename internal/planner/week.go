package planner

import (
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

// WeekStartOf returns the Monday of the week containing t, truncated to a
// date. The civil date is taken in t's own location; Truncate would round
// against UTC midnight and shift the day in western timezones.
func WeekStartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekStartISO returns the Monday of the current week as YYYY-MM-DD.
func WeekStartISO(now time.Time) string {
	return WeekStartOf(now).Format(isoDate)
}

// ParseISODate validates a YYYY-MM-DD date string.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidDayIndex reports whether d addresses a day column (0 = Monday).
func ValidDayIndex(d int) bool {
	return d >= 0 && d <= 6
}
