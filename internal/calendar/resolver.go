package calendar

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

// Resolver classifies dates as workdays, weekends or holidays.
//
// Holiday sets are fetched from the Source at most once per year and kept in
// the HolidayCache. A failed fetch is logged and cached as an empty set, so
// lookups fail open: the date counts as a regular day. A caller that gives up
// before the fetch ends gets an empty set that is not cached.
type Resolver struct {
	source Source
	cache  *HolidayCache
	group  singleflight.Group
	logger *zap.Logger
}

// NewResolver creates a new Resolver. A nil cache gets a fresh HolidayCache.
func NewResolver(source Source, cache *HolidayCache, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewHolidayCache()
	}

	return &Resolver{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// HolidaysForYear returns the holiday set for year, fetching it on first use.
//
// Concurrent callers share one fetch. The fetch runs detached from any single
// caller's context and is bounded by the source's own timeout; a caller whose
// context ends first gets an empty set while the fetch completes for the rest.
func (r *Resolver) HolidaysForYear(ctx context.Context, year int) HolidaySet {
	if set, ok := r.cache.Get(year); ok {
		return set
	}
	if ctx.Err() != nil {
		return HolidaySet{}
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(strconv.Itoa(year), func() (interface{}, error) {
		if set, ok := r.cache.Get(year); ok {
			return set, nil
		}

		set, err := r.source.HolidaysForYear(fetchCtx, year)
		if err != nil {
			r.logger.Warn("Failed to fetch holidays, treating year as holiday-free",
				zap.Int("year", year),
				zap.Error(err))
			set = HolidaySet{}
		}

		return r.cache.Store(year, set), nil
	})

	select {
	case res := <-ch:
		return res.Val.(HolidaySet)
	case <-ctx.Done():
		r.logger.Debug("Holiday lookup abandoned by caller",
			zap.Int("year", year),
			zap.Error(ctx.Err()))
		return HolidaySet{}
	}
}

// IsWeekendOrHoliday reports whether date falls on Saturday, Sunday or a holiday
func (r *Resolver) IsWeekendOrHoliday(ctx context.Context, date time.Time) bool {
	return r.Classify(ctx, date).Type != DayTypeWorkday
}

// Classify returns detailed info for a specific day.
// Weekends are decided without a holiday lookup.
func (r *Resolver) Classify(ctx context.Context, date time.Time) DayInfo {
	info := DayInfo{
		Date: dateutil.StartOfDay(date),
		Type: DayTypeWorkday,
	}

	if dateutil.IsWeekend(date) {
		info.Type = DayTypeWeekend
		return info
	}

	if name, ok := r.HolidaysForYear(ctx, date.Year()).Name(dateutil.FormatISODate(date)); ok {
		info.Type = DayTypeHoliday
		info.Note = name
	}

	return info
}

// Prefetch loads the given years concurrently
func (r *Resolver) Prefetch(ctx context.Context, years []int) {
	seen := make(map[int]bool, len(years))

	var g errgroup.Group
	for _, year := range years {
		if seen[year] {
			continue
		}
		seen[year] = true

		year := year
		g.Go(func() error {
			r.HolidaysForYear(ctx, year)
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Debug("Holiday years prefetched",
		zap.Ints("years", years),
		zap.Int("cached_years", r.cache.Len()))
}
