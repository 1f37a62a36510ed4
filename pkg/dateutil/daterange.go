package dateutil

import (
	"time"

	"github.com/teambition/rrule-go"
)

// DayIterator lazily walks calendar days of an inclusive date range.
//
// Days are produced by a FREQ=DAILY rule anchored at noon of the start date
// and returned as the start of each day. Noon exists on every day a DST
// change can touch, so a skipped midnight neither repeats the previous day
// nor drops the current one. A calendar date the location never had (a
// dateline shift) is left out. The iterator can be restarted with Reset.
type DayIterator struct {
	rule   *rrule.RRule
	next   rrule.Next
	done   bool
	prev   int // dayKey of the last returned day
	endKey int // dayKey of the range end
}

// dayKey orders calendar dates as YYYYMMDD
func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// DatesInRange returns an iterator over every calendar day from start to end,
// both inclusive, in ascending order. The iterator is empty when end is
// before start.
func DatesInRange(start, end time.Time) *DayIterator {
	loc := start.Location()
	first := time.Date(start.Year(), start.Month(), start.Day(), 12, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 12, 0, 0, 0, loc)

	if DaysBetween(start, end) < 0 {
		return &DayIterator{done: true}
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first,
		Until:   last,
	})
	if err != nil {
		// unreachable for a DAILY rule with UNTIL
		return &DayIterator{done: true}
	}

	it := &DayIterator{
		rule:   rule,
		endKey: dayKey(end),
	}
	it.Reset()
	return it
}

// Next returns the next day in the range. ok is false once the range is exhausted.
func (it *DayIterator) Next() (day time.Time, ok bool) {
	for !it.done && it.next != nil {
		occurrence, more := it.next()
		if !more {
			it.done = true
			break
		}

		key := dayKey(occurrence)
		if key > it.endKey {
			it.done = true
			break
		}
		if key <= it.prev {
			continue
		}

		it.prev = key
		return StartOfDay(occurrence), true
	}
	return time.Time{}, false
}

// Reset restarts the iteration from the first day
func (it *DayIterator) Reset() {
	if it.rule == nil {
		return
	}
	it.next = it.rule.Iterator()
	it.done = false
	it.prev = 0
}

// All drains a fresh pass over the range into a slice
func (it *DayIterator) All() []time.Time {
	if it.rule == nil {
		return nil
	}

	pass := &DayIterator{rule: it.rule, endKey: it.endKey}
	pass.Reset()

	var days []time.Time
	for day, ok := pass.Next(); ok; day, ok = pass.Next() {
		days = append(days, day)
	}
	return days
}
