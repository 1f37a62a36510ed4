package dateutil

import (
	"fmt"
	"time"
)

// ISODateLayout is the calendar-date layout used for holiday lookups and form input
const ISODateLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// FormatISODate formats date as YYYY-MM-DD in the date's own location
func FormatISODate(date time.Time) string {
	return date.Format(ISODateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
// A nil loc means time.Local.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(ISODateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	return t, nil
}

// DaysBetween returns the number of calendar days from start to end.
// Negative when end is before start.
func DaysBetween(start, end time.Time) int {
	// Noon UTC on both sides keeps DST transitions out of the subtraction
	s := time.Date(start.Year(), start.Month(), start.Day(), 12, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 12, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// YearsInRange returns the distinct calendar years touched by [start, end], ascending
func YearsInRange(start, end time.Time) []int {
	if end.Before(start) {
		return nil
	}

	years := make([]int, 0, end.Year()-start.Year()+1)
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	return years
}
