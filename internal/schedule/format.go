package schedule

import (
	"fmt"
	"time"
)

var (
	// JapaneseWeekdays indexed by time.Weekday (Sunday first)
	JapaneseWeekdays = [7]string{"日", "月", "火", "水", "木", "金", "土"}
	// EnglishWeekdays indexed by time.Weekday (Sunday first)
	EnglishWeekdays = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
)

// Formatter renders schedule lines
type Formatter struct {
	weekdays [7]string
}

// NewFormatter returns a Formatter for locale ("ja" or "en"); anything else is "ja"
func NewFormatter(locale string) Formatter {
	if locale == "en" {
		return Formatter{weekdays: EnglishWeekdays}
	}
	return Formatter{weekdays: JapaneseWeekdays}
}

// FormatDate renders "M/D(w)" without zero padding
func (f Formatter) FormatDate(date time.Time) string {
	return fmt.Sprintf("%d/%d(%s)", int(date.Month()), date.Day(), f.weekdays[date.Weekday()])
}

// FormatLine renders the date alone, or the date followed by "HH:MM ~ HH:MM"
func (f Formatter) FormatLine(date time.Time, slot *Slot) string {
	if slot == nil {
		return f.FormatDate(date)
	}
	return f.FormatDate(date) + " " + slot.String()
}
