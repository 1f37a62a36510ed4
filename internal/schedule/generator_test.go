package schedule

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

// fakeHolidays treats weekends and the listed ISO dates as days off
type fakeHolidays struct {
	dates      map[string]bool
	prefetched []int
	lookups    int
}

func (f *fakeHolidays) IsWeekendOrHoliday(_ context.Context, date time.Time) bool {
	f.lookups++
	return dateutil.IsWeekend(date) || f.dates[dateutil.FormatISODate(date)]
}

func (f *fakeHolidays) Prefetch(_ context.Context, years []int) {
	f.prefetched = append(f.prefetched, years...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestGenerator(h HolidayChecker) *Generator {
	return NewGenerator(h, NewFormatter("ja"), zap.NewNop())
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "Scenario A: timed single day",
			req: Request{
				EventTitle:      "X",
				StartDate:       day(2024, 1, 5),
				EndDate:         day(2024, 1, 5),
				Window:          TimeWindow{Start: 10 * 60, End: 12 * 60},
				DurationMinutes: 60,
			},
			want: "1/5(金) 10:00 ~ 11:00\n1/5(金) 11:00 ~ 12:00",
		},
		{
			name: "Scenario B: full day",
			req: Request{
				EventTitle:      "X",
				StartDate:       day(2024, 1, 5),
				EndDate:         day(2024, 1, 5),
				FullDay:         true,
				Window:          TimeWindow{Start: 10 * 60, End: 12 * 60},
				DurationMinutes: 60,
			},
			want: "1/5(金)",
		},
		{
			name: "Scenario C: weekend only range with exclusion",
			req: Request{
				EventTitle:      "X",
				StartDate:       day(2024, 1, 6),
				EndDate:         day(2024, 1, 7),
				FullDay:         true,
				ExcludeHolidays: true,
			},
			want: "",
		},
		{
			name: "Full day range keeps weekends without exclusion",
			req: Request{
				StartDate: day(2024, 1, 5),
				EndDate:   day(2024, 1, 7),
				FullDay:   true,
			},
			want: "1/5(金)\n1/6(土)\n1/7(日)",
		},
		{
			name: "Saturday removed for every slot",
			req: Request{
				StartDate:       day(2024, 1, 5),
				EndDate:         day(2024, 1, 8),
				Window:          TimeWindow{Start: 9 * 60, End: 10 * 60},
				DurationMinutes: 30,
				ExcludeHolidays: true,
			},
			want: "1/5(金) 09:00 ~ 09:30\n1/5(金) 09:30 ~ 10:00\n" +
				"1/8(月) 09:00 ~ 09:30\n1/8(月) 09:30 ~ 10:00",
		},
		{
			name: "Holiday on a weekday is skipped",
			req: Request{
				StartDate:       day(2024, 1, 1),
				EndDate:         day(2024, 1, 2),
				FullDay:         true,
				ExcludeHolidays: true,
			},
			want: "1/2(火)",
		},
		{
			name: "Degenerate window yields nothing",
			req: Request{
				StartDate:       day(2024, 1, 5),
				EndDate:         day(2024, 1, 9),
				Window:          TimeWindow{Start: 10 * 60, End: 10*60 + 30},
				DurationMinutes: 60,
			},
			want: "",
		},
		{
			name: "Midnight crossing keeps the start date",
			req: Request{
				StartDate:       day(2024, 1, 5),
				EndDate:         day(2024, 1, 5),
				Window:          TimeWindow{Start: 23 * 60, End: 60},
				DurationMinutes: 60,
			},
			want: "1/5(金) 23:00 ~ 00:00\n1/5(金) 00:00 ~ 01:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(&fakeHolidays{dates: map[string]bool{"2024-01-01": true}})

			if got := g.Generate(context.Background(), tt.req); got != tt.want {
				t.Errorf("Generate() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestGenerator_NoLookupsWithoutExclusion(t *testing.T) {
	h := &fakeHolidays{}
	g := newTestGenerator(h)

	g.Generate(context.Background(), Request{
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 1, 31),
		FullDay:   true,
	})

	if h.lookups != 0 || len(h.prefetched) != 0 {
		t.Errorf("holiday checker used without exclusion: lookups=%d prefetched=%v", h.lookups, h.prefetched)
	}
}

func TestGenerator_PrefetchesYearsInRange(t *testing.T) {
	h := &fakeHolidays{}
	g := newTestGenerator(h)

	g.Generate(context.Background(), Request{
		StartDate:       day(2024, 12, 30),
		EndDate:         day(2025, 1, 3),
		FullDay:         true,
		ExcludeHolidays: true,
	})

	if len(h.prefetched) != 2 || h.prefetched[0] != 2024 || h.prefetched[1] != 2025 {
		t.Errorf("prefetched = %v, want [2024 2025]", h.prefetched)
	}
	if h.lookups != 5 {
		t.Errorf("lookups = %d, want one per day (5)", h.lookups)
	}
}

func TestGenerator_SkippedMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	form := validForm()
	form.StartDate = "2018-11-02"
	form.EndDate = "2018-11-05"
	form.FullDay = true

	req, err := NewParser(loc, 0).Parse(form)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := newTestGenerator(&fakeHolidays{}).Generate(context.Background(), req)
	want := "11/2(金)\n11/3(土)\n11/4(日)\n11/5(月)"
	if got != want {
		t.Errorf("Generate() =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerator_Idempotent(t *testing.T) {
	g := newTestGenerator(&fakeHolidays{})
	req := Request{
		StartDate:       day(2024, 2, 1),
		EndDate:         day(2024, 2, 29),
		Window:          TimeWindow{Start: 18 * 60, End: 2 * 60},
		DurationMinutes: 90,
		ExcludeHolidays: true,
	}

	first := g.Generate(context.Background(), req)
	second := g.Generate(context.Background(), req)

	if first == "" {
		t.Fatal("expected non-empty output")
	}
	if first != second {
		t.Error("Generate() is not idempotent")
	}
}

func TestGenerator_EntriesOrder(t *testing.T) {
	g := newTestGenerator(&fakeHolidays{})

	entries := g.Entries(context.Background(), Request{
		StartDate:       day(2024, 3, 1),
		EndDate:         day(2024, 3, 3),
		Window:          TimeWindow{Start: 9 * 60, End: 11 * 60},
		DurationMinutes: 60,
	})

	if len(entries) != 6 {
		t.Fatalf("len(entries) = %d, want 6", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Date.Before(prev.Date) {
			t.Fatalf("entry %d goes back in time", i)
		}
		if cur.Date.Equal(prev.Date) && cur.Slot.Start <= prev.Slot.Start {
			t.Fatalf("entry %d out of slot order", i)
		}
	}
}
