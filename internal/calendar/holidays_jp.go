package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

const (
	DefaultHolidaysBaseURL = "https://holidays-jp.shogo82148.com"
	defaultHTTPTimeout     = 10 * time.Second
	maxResponseBytes       = 1 << 20
)

// HolidaysJP implements Source using a holidays-jp style HTTP API (GET {base}/{year})
type HolidaysJP struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// holidayEntry is one element of the "holidays" array or of a bare array response
type holidayEntry struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// NewHolidaysJP creates a new HolidaysJP source.
// ratePerSec <= 0 disables outbound rate limiting.
func NewHolidaysJP(baseURL string, timeout time.Duration, ratePerSec float64, logger *zap.Logger) *HolidaysJP {
	if baseURL == "" {
		baseURL = DefaultHolidaysBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSec > 0 {
		burst := int(ratePerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}

	return &HolidaysJP{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// HolidaysForYear fetches the holiday list for year
func (c *HolidaysJP) HolidaysForYear(ctx context.Context, year int) (HolidaySet, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, year)

	if err := c.limiter.Wait(ctx); err != nil {
		return HolidaySet{}, fmt.Errorf("rate limiter: %w", err)
	}

	c.logger.Debug("Fetching holidays",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to fetch holiday data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HolidaySet{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to read response: %w", err)
	}

	entries, err := parseHolidayResponse(body)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to parse holiday response: %w", err)
	}

	set := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, err := time.Parse(dateutil.ISODateLayout, e.Date); err != nil {
			c.logger.Debug("Skipping non-date holiday entry",
				zap.String("value", e.Date))
			continue
		}
		set[e.Date] = e.Name
	}

	c.logger.Info("Holidays fetched from API",
		zap.Int("year", year),
		zap.Int("count", len(set)))

	return NewHolidaySet(set), nil
}

// parseHolidayResponse accepts three response shapes:
//
//	{"holidays":[{"date":"2024-01-01","name":"元日"}, ...]}
//	[{"date":"2024-01-01"}, "2024-01-08", ...]
//	{"2024-01-01":"元日", ...}
func parseHolidayResponse(body []byte) ([]holidayEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return parseHolidayItems(items)

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, err
		}

		if raw, ok := obj["holidays"]; ok {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("holidays field is not an array: %w", err)
			}
			return parseHolidayItems(items)
		}

		entries := make([]holidayEntry, 0, len(obj))
		for date, raw := range obj {
			var name string
			// Non-string values (numbers, objects) still mark the key as a holiday
			_ = json.Unmarshal(raw, &name)
			entries = append(entries, holidayEntry{Date: date, Name: name})
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("unexpected JSON value starting with %q", trimmed[0])
	}
}

func parseHolidayItems(items []json.RawMessage) ([]holidayEntry, error) {
	entries := make([]holidayEntry, 0, len(items))
	for i, raw := range items {
		var date string
		if err := json.Unmarshal(raw, &date); err == nil {
			entries = append(entries, holidayEntry{Date: date})
			continue
		}

		var e holidayEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
