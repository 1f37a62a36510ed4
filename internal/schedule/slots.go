package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time in minutes after the reference midnight.
// Values of 1440 and above belong to the following day.
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// Hour returns the hour on the 24-hour clock
func (t TimeOfDay) Hour() int {
	return (int(t) % minutesPerDay) / 60
}

// Minute returns the minute within the hour
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats the time as zero-padded "HH:MM", wrapping past midnight
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// TimeWindow is the daily availability window.
// An End at or before Start means the window crosses midnight.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// effectiveEnd returns End moved to the next day when the window crosses midnight
func (w TimeWindow) effectiveEnd() TimeOfDay {
	if w.End <= w.Start {
		return w.End + minutesPerDay
	}
	return w.End
}

// Minutes returns the window length
func (w TimeWindow) Minutes() int {
	return int(w.effectiveEnd() - w.Start)
}

// Slot is a fixed-length part of a TimeWindow
type Slot struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (s Slot) String() string {
	return s.Start.String() + " ~ " + s.End.String()
}

// Partition splits window into consecutive slots of durationMinutes.
// A trailing slot that would overshoot the window end is dropped.
func Partition(window TimeWindow, durationMinutes int) []Slot {
	if durationMinutes <= 0 {
		return nil
	}

	end := window.effectiveEnd()
	step := TimeOfDay(durationMinutes)

	slots := make([]Slot, 0, window.Minutes()/durationMinutes)
	for current := window.Start; current < end; current += step {
		slotEnd := current + step
		if slotEnd <= end {
			slots = append(slots, Slot{Start: current, End: slotEnd})
		}
	}

	return slots
}
