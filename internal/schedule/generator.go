package schedule

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

// HolidayChecker decides whether a day is skipped when holidays are excluded
type HolidayChecker interface {
	IsWeekendOrHoliday(ctx context.Context, date time.Time) bool
}

// Prefetcher is implemented by checkers that can load several years at once
type Prefetcher interface {
	Prefetch(ctx context.Context, years []int)
}

// Entry is one candidate line before rendering. Slot is nil in full-day mode.
type Entry struct {
	Date time.Time
	Slot *Slot
}

// Generator builds candidate lines for a Request
type Generator struct {
	holidays  HolidayChecker
	formatter Formatter
	logger    *zap.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(holidays HolidayChecker, formatter Formatter, logger *zap.Logger) *Generator {
	return &Generator{
		holidays:  holidays,
		formatter: formatter,
		logger:    logger,
	}
}

// Entries returns the candidate entries in day order, then slot order
func (g *Generator) Entries(ctx context.Context, req Request) []Entry {
	var slots []Slot
	if !req.FullDay {
		slots = Partition(req.Window, req.DurationMinutes)
	}

	if req.ExcludeHolidays {
		if p, ok := g.holidays.(Prefetcher); ok {
			p.Prefetch(ctx, dateutil.YearsInRange(req.StartDate, req.EndDate))
		}
	}

	var entries []Entry
	skipped := 0

	days := dateutil.DatesInRange(req.StartDate, req.EndDate)
	for day, ok := days.Next(); ok; day, ok = days.Next() {
		if req.ExcludeHolidays && g.holidays.IsWeekendOrHoliday(ctx, day) {
			skipped++
			continue
		}

		if req.FullDay {
			entries = append(entries, Entry{Date: day})
			continue
		}

		for i := range slots {
			entries = append(entries, Entry{Date: day, Slot: &slots[i]})
		}
	}

	g.logger.Debug("Schedule entries generated",
		zap.String("start_date", dateutil.FormatISODate(req.StartDate)),
		zap.String("end_date", dateutil.FormatISODate(req.EndDate)),
		zap.Bool("full_day", req.FullDay),
		zap.Int("slots_per_day", len(slots)),
		zap.Int("skipped_days", skipped),
		zap.Int("entries", len(entries)))

	return entries
}

// Lines renders entries into schedule lines
func (g *Generator) Lines(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = g.formatter.FormatLine(e.Date, e.Slot)
	}
	return lines
}

// Generate returns the newline-joined candidate lines, or "" when there are none
func (g *Generator) Generate(ctx context.Context, req Request) string {
	return strings.Join(g.Lines(g.Entries(ctx, req)), "\n")
}
