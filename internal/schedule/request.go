package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

const (
	msgMissingFields   = "必須フィールドが不足しています: %s"
	msgEndBeforeStart  = "終了日は開始日より後に設定してください"
	msgRangeTooLong    = "日付範囲が長すぎます (最大%d日)"
	msgInvalidDate     = "日付の形式が正しくありません: %s"
	msgInvalidTime     = "時刻の形式が正しくありません: %s"
	msgInvalidDuration = "時間枠は正の整数で指定してください"
)

// FormData is the candidate form as submitted by a caller.
// Field names follow the form ids of the scheduling panel.
type FormData struct {
	EventTitle      string `json:"eventTitle" validate:"required"`
	Memo            string `json:"memo"`
	StartDate       string `json:"startDate" validate:"required"`
	EndDate         string `json:"endDate" validate:"required"`
	StartTime       string `json:"startTime" validate:"required_if=FullDay false"`
	EndTime         string `json:"endTime" validate:"required_if=FullDay false"`
	Duration        string `json:"duration" validate:"required_if=FullDay false"`
	FullDay         bool   `json:"fullDay"`
	Overwrite       bool   `json:"overwrite"`
	ExcludeHolidays bool   `json:"excludeHolidays"`
}

// Request is a validated schedule request
type Request struct {
	EventTitle      string
	Memo            string
	StartDate       time.Time
	EndDate         time.Time
	FullDay         bool
	Window          TimeWindow
	DurationMinutes int
	ExcludeHolidays bool
	Overwrite       bool
}

// RequestError is returned for requests rejected before generation
type RequestError struct {
	Missing []string // JSON names of missing required fields
	Reason  string
}

func (e *RequestError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf(msgMissingFields, strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

// IsRequestError reports whether err is a *RequestError
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// Parser turns FormData into a Request
type Parser struct {
	validate *validator.Validate
	loc      *time.Location
	maxDays  int
}

// NewParser creates a Parser. Dates are interpreted in loc (nil means time.Local);
// maxDays <= 0 disables the range length check.
func NewParser(loc *time.Location, maxDays int) *Parser {
	if loc == nil {
		loc = time.Local
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Parser{
		validate: v,
		loc:      loc,
		maxDays:  maxDays,
	}
}

// Parse validates form and converts it into a Request
func (p *Parser) Parse(form FormData) (Request, error) {
	form.EventTitle = strings.TrimSpace(form.EventTitle)

	if err := p.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return Request{}, &RequestError{Missing: missing}
		}
		return Request{}, fmt.Errorf("failed to validate request: %w", err)
	}

	req := Request{
		EventTitle:      form.EventTitle,
		Memo:            form.Memo,
		FullDay:         form.FullDay,
		ExcludeHolidays: form.ExcludeHolidays,
		Overwrite:       form.Overwrite,
	}

	var err error
	if req.StartDate, err = dateutil.ParseDate(form.StartDate, p.loc); err != nil {
		return Request{}, &RequestError{Reason: fmt.Sprintf(msgInvalidDate, form.StartDate)}
	}
	if req.EndDate, err = dateutil.ParseDate(form.EndDate, p.loc); err != nil {
		return Request{}, &RequestError{Reason: fmt.Sprintf(msgInvalidDate, form.EndDate)}
	}

	days := dateutil.DaysBetween(req.StartDate, req.EndDate)
	if days < 0 {
		return Request{}, &RequestError{Reason: msgEndBeforeStart}
	}
	if p.maxDays > 0 && days+1 > p.maxDays {
		return Request{}, &RequestError{Reason: fmt.Sprintf(msgRangeTooLong, p.maxDays)}
	}

	if req.FullDay {
		return req, nil
	}

	if req.Window.Start, err = ParseTimeOfDay(form.StartTime); err != nil {
		return Request{}, &RequestError{Reason: fmt.Sprintf(msgInvalidTime, form.StartTime)}
	}
	if req.Window.End, err = ParseTimeOfDay(form.EndTime); err != nil {
		return Request{}, &RequestError{Reason: fmt.Sprintf(msgInvalidTime, form.EndTime)}
	}

	duration, err := strconv.Atoi(strings.TrimSpace(form.Duration))
	if err != nil || duration <= 0 {
		return Request{}, &RequestError{Reason: msgInvalidDuration}
	}
	req.DurationMinutes = duration

	return req, nil
}
