package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/candidate-scheduler/pkg/dateutil"
)

// FileSource implements Source using a local text file
type FileSource struct {
	filePath string
	logger   *zap.Logger

	mu   sync.RWMutex
	data map[int]map[string]string // year → date → name
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Load loads holiday data from file
func (fs *FileSource) Load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	if err := fs.LoadFrom(file); err != nil {
		return err
	}

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("years", fs.years()))

	return nil
}

// LoadFrom parses holiday lines from r, replacing any previously loaded data.
//
// Format: YYYY-MM-DD [name]
// Example: 2025-01-01 元日
func (fs *FileSource) LoadFrom(r io.Reader) error {
	data := make(map[int]map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		dateStr := parts[0]
		name := ""
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}

		date, err := time.Parse(dateutil.ISODateLayout, dateStr)
		if err != nil {
			fs.logger.Warn("Failed to parse date", zap.String("date", dateStr), zap.Error(err))
			continue
		}

		if data[date.Year()] == nil {
			data[date.Year()] = make(map[string]string)
		}
		data[date.Year()][dateStr] = name
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fs.mu.Lock()
	fs.data = data
	fs.mu.Unlock()

	return nil
}

// HolidaysForYear returns the holidays listed for year
func (fs *FileSource) HolidaysForYear(_ context.Context, year int) (HolidaySet, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if fs.data == nil {
		return HolidaySet{}, fmt.Errorf("holiday file not loaded: %s", fs.filePath)
	}

	days, ok := fs.data[year]
	if !ok {
		return HolidaySet{}, fmt.Errorf("year not found in holiday file: %d", year)
	}

	return NewHolidaySet(days), nil
}

func (fs *FileSource) years() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.data)
}
