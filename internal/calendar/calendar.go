package calendar

import (
	"context"
	"sort"
	"time"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	default:
		return "unknown"
	}
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date time.Time
	Type DayType
	Note string // holiday name, when the source provides one
}

// HolidaySet is an immutable set of ISO dates (YYYY-MM-DD) with optional names
type HolidaySet struct {
	names map[string]string
}

// NewHolidaySet copies entries (date → name) into a new set
func NewHolidaySet(entries map[string]string) HolidaySet {
	names := make(map[string]string, len(entries))
	for date, name := range entries {
		names[date] = name
	}
	return HolidaySet{names: names}
}

// Contains reports whether the ISO date is in the set
func (s HolidaySet) Contains(date string) bool {
	_, ok := s.names[date]
	return ok
}

// Name returns the holiday name for the ISO date
func (s HolidaySet) Name(date string) (string, bool) {
	name, ok := s.names[date]
	return name, ok
}

// Len returns the number of dates in the set
func (s HolidaySet) Len() int {
	return len(s.names)
}

// Dates returns the dates in ascending order
func (s HolidaySet) Dates() []string {
	dates := make([]string, 0, len(s.names))
	for date := range s.names {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Source provides the holiday set for a calendar year
type Source interface {
	HolidaysForYear(ctx context.Context, year int) (HolidaySet, error)
}
