package dateutil

import (
	"testing"
	"time"
)

func collect(it *DayIterator) []string {
	var out []string
	for day, ok := it.Next(); ok; day, ok = it.Next() {
		out = append(out, day.Format(ISODateLayout))
	}
	return out
}

func TestDatesInRange(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []string
	}{
		{
			name:  "Inclusive three days",
			start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			want:  []string{"2024-03-01", "2024-03-02", "2024-03-03"},
		},
		{
			name:  "Single day",
			start: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			want:  []string{"2024-01-05"},
		},
		{
			name:  "Time of day on inputs is ignored",
			start: time.Date(2024, 1, 5, 18, 30, 0, 0, time.UTC),
			end:   time.Date(2024, 1, 6, 1, 0, 0, 0, time.UTC),
			want:  []string{"2024-01-05", "2024-01-06"},
		},
		{
			name:  "Across year boundary",
			start: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want:  []string{"2024-12-31", "2025-01-01"},
		},
		{
			name:  "End before start is empty",
			start: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(DatesInRange(tt.start, tt.end))

			if len(got) != len(tt.want) {
				t.Fatalf("DatesInRange() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("DatesInRange()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDatesInRange_DST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 2024-03-10 is 23 hours long in New York
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	end := time.Date(2024, 3, 12, 0, 0, 0, 0, loc)

	days := DatesInRange(start, end).All()
	if len(days) != 4 {
		t.Fatalf("got %d days, want 4", len(days))
	}
	for i, day := range days {
		if day.Hour() != 0 || day.Minute() != 0 {
			t.Errorf("day %d = %v, want local midnight", i, day)
		}
		if want := 9 + i; day.Day() != want {
			t.Errorf("day %d = %d, want %d", i, day.Day(), want)
		}
	}
}

func TestDatesInRange_TimeZoneTransitions(t *testing.T) {
	tests := []struct {
		name  string
		zone  string
		start [3]int
		end   [3]int
		want  []string
	}{
		{
			// 2018-11-04 starts at 01:00 in Sao Paulo
			name:  "Skipped midnight",
			zone:  "America/Sao_Paulo",
			start: [3]int{2018, 11, 1},
			end:   [3]int{2018, 11, 8},
			want: []string{
				"2018-11-01", "2018-11-02", "2018-11-03", "2018-11-04",
				"2018-11-05", "2018-11-06", "2018-11-07", "2018-11-08",
			},
		},
		{
			name:  "Repeated hour",
			zone:  "America/Sao_Paulo",
			start: [3]int{2019, 2, 15},
			end:   [3]int{2019, 2, 18},
			want:  []string{"2019-02-15", "2019-02-16", "2019-02-17", "2019-02-18"},
		},
		{
			// Samoa moved across the dateline; 2011-12-30 never happened in Apia
			name:  "Dateline shift",
			zone:  "Pacific/Apia",
			start: [3]int{2011, 12, 28},
			end:   [3]int{2012, 1, 1},
			want:  []string{"2011-12-28", "2011-12-29", "2011-12-31", "2012-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Skipf("timezone data unavailable: %v", err)
			}

			start := time.Date(tt.start[0], time.Month(tt.start[1]), tt.start[2], 0, 0, 0, 0, loc)
			end := time.Date(tt.end[0], time.Month(tt.end[1]), tt.end[2], 0, 0, 0, 0, loc)

			days := DatesInRange(start, end).All()

			got := make([]string, len(days))
			for i, day := range days {
				got[i] = day.Format(ISODateLayout)
				if day.Location() != loc {
					t.Errorf("day %d in %v, want %v", i, day.Location(), loc)
				}
				if i > 0 && !day.After(days[i-1]) {
					t.Errorf("day %d (%v) not after day %d (%v)", i, day, i-1, days[i-1])
				}
			}

			if len(got) != len(tt.want) {
				t.Fatalf("DatesInRange() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("DatesInRange()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDatesInRange_AllMatchesNext(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	it := DatesInRange(time.Date(2018, 10, 1, 0, 0, 0, 0, loc), time.Date(2019, 3, 31, 0, 0, 0, 0, loc))
	stepped := collect(it)
	all := it.All()

	if len(stepped) != len(all) {
		t.Fatalf("Next() gave %d days, All() gave %d", len(stepped), len(all))
	}
	if want := DaysBetween(all[0], all[len(all)-1]) + 1; len(all) != want {
		t.Errorf("len = %d, want %d", len(all), want)
	}
}

func TestDayIterator_Reset(t *testing.T) {
	it := DatesInRange(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	)

	first := collect(it)
	if _, ok := it.Next(); ok {
		t.Fatal("Next() after exhaustion returned ok")
	}

	it.Reset()
	second := collect(it)

	if len(first) != 2 || len(second) != 2 || first[0] != second[0] || first[1] != second[1] {
		t.Errorf("restart mismatch: first=%v second=%v", first, second)
	}
}

func TestDatesInRange_LengthMatchesDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	got := len(DatesInRange(start, end).All())
	want := DaysBetween(start, end) + 1

	if got != want {
		t.Errorf("len = %d, want %d", got, want)
	}
}
