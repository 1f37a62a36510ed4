package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/username/candidate-scheduler/internal/schedule"
)

func TestWriteICS(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	req := schedule.Request{EventTitle: "Interview", Memo: "room 3"}
	entries := []schedule.Entry{
		{Date: date, Slot: &schedule.Slot{Start: 10 * 60, End: 11 * 60}},
		{Date: date, Slot: &schedule.Slot{Start: 23 * 60, End: 24 * 60}},
		{Date: date},
	}

	var buf bytes.Buffer
	if err := WriteICS(&buf, req, entries, date); err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ParseCalendar() error = %v", err)
	}

	events := cal.Events()
	if len(events) != len(entries) {
		t.Fatalf("got %d events, want %d", len(events), len(entries))
	}

	seen := make(map[string]bool)
	for _, ev := range events {
		uid := ev.Id()
		if uid == "" || seen[uid] {
			t.Errorf("event UID %q empty or duplicated", uid)
		}
		seen[uid] = true

		if p := ev.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Interview" {
			t.Errorf("SUMMARY = %v, want Interview", p)
		}
	}

	start, err := events[0].GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt() error = %v", err)
	}
	if !start.Equal(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("first event starts at %v", start)
	}

	end, err := events[1].GetEndAt()
	if err != nil {
		t.Fatalf("GetEndAt() error = %v", err)
	}
	if !end.Equal(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("midnight slot ends at %v, want next day 00:00", end)
	}

	if p := events[2].GetProperty(ical.ComponentPropertyDtStart); p == nil || p.Value != "20240105" {
		t.Errorf("all-day DTSTART = %v, want 20240105", p)
	}
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, schedule.Request{EventTitle: "X"}, nil, time.Now()); err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}
	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") {
		t.Error("calendar header missing")
	}
	if strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Error("unexpected event in empty calendar")
	}
}
