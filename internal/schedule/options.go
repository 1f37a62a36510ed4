package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

// DefaultDurationMinutes is the slot length preselected for new forms
const DefaultDurationMinutes = 60

// DurationOption is a selectable slot length
type DurationOption struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// DurationOptions are the slot lengths offered to users
var DurationOptions = []DurationOption{
	{Minutes: 30, Label: "30分"},
	{Minutes: 60, Label: "1時間"},
	{Minutes: 90, Label: "1時間30分"},
	{Minutes: 120, Label: "2時間"},
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// AvailableDurations returns the options that fit in the window between
// startTime and endTime. Every option is returned when either time is empty.
func AvailableDurations(startTime, endTime string) ([]DurationOption, error) {
	if startTime == "" || endTime == "" {
		return DurationOptions, nil
	}

	start, err := ParseTimeOfDay(startTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimeOfDay(endTime)
	if err != nil {
		return nil, err
	}

	total := TimeWindow{Start: start, End: end}.Minutes()

	available := make([]DurationOption, 0, len(DurationOptions))
	for _, opt := range DurationOptions {
		if opt.Minutes <= total {
			available = append(available, opt)
		}
	}
	return available, nil
}

// DefaultForm returns a form prefilled for today: the current hour to the next,
// with the default slot length.
func DefaultForm(clock Clock) FormData {
	now := clock.Now()
	today := dateutil.FormatISODate(now)
	hour := now.Hour()

	return FormData{
		StartDate: today,
		EndDate:   today,
		StartTime: fmt.Sprintf("%02d:00", hour),
		EndTime:   fmt.Sprintf("%02d:00", (hour+1)%24),
		Duration:  strconv.Itoa(DefaultDurationMinutes),
	}
}
