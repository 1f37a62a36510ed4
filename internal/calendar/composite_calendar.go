package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: HolidaysJP (API)
// Fallback: FileSource (local file)
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// HolidaysForYear tries the primary source and falls back on error
func (cs *CompositeSource) HolidaysForYear(ctx context.Context, year int) (HolidaySet, error) {
	set, err := cs.primary.HolidaysForYear(ctx, year)
	if err == nil {
		return set, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back to file",
		zap.Int("year", year),
		zap.Error(err))

	set, fallbackErr := cs.fallback.HolidaysForYear(ctx, year)
	if fallbackErr != nil {
		return HolidaySet{}, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}

	return set, nil
}

// LoadFallback loads the fallback source (if FileSource)
func (cs *CompositeSource) LoadFallback() error {
	if fs, ok := cs.fallback.(*FileSource); ok {
		if err := fs.Load(); err != nil {
			return fmt.Errorf("failed to load fallback holidays: %w", err)
		}
		cs.logger.Info("Fallback holiday file loaded successfully")
	}
	return nil
}
