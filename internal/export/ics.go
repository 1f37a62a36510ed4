package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/username/candidate-scheduler/internal/schedule"
)

// ProductID identifies calendars produced by this module
const ProductID = "-//candidate-scheduler//Candidate Slots//JA"

// WriteICS writes entries as an iCalendar feed to w.
// Full-day entries become all-day events; slots become timed events in the
// location of their date, so a slot past midnight lands on the following day.
func WriteICS(w io.Writer, req schedule.Request, entries []schedule.Entry, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range entries {
		event := cal.AddEvent(uuid.NewString())
		event.SetDtStampTime(now)
		event.SetSummary(req.EventTitle)
		if req.Memo != "" {
			event.SetDescription(req.Memo)
		}

		if e.Slot == nil {
			event.SetAllDayStartAt(e.Date)
			event.SetAllDayEndAt(e.Date.AddDate(0, 0, 1))
			continue
		}

		event.SetStartAt(slotTime(e.Date, e.Slot.Start))
		event.SetEndAt(slotTime(e.Date, e.Slot.End))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// slotTime anchors a time of day to date; minutes past 24:00 roll into the next day
func slotTime(date time.Time, t schedule.TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, int(t), 0, 0, date.Location())
}
