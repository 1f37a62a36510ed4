package calendar

import "sync"

// HolidayCache keeps one HolidaySet per year for the lifetime of the process.
// Entries are never evicted or replaced: the first stored set for a year wins.
type HolidayCache struct {
	mu    sync.RWMutex
	years map[int]HolidaySet
}

// NewHolidayCache creates an empty cache
func NewHolidayCache() *HolidayCache {
	return &HolidayCache{
		years: make(map[int]HolidaySet),
	}
}

// Get returns the cached set for year
func (c *HolidayCache) Get(year int) (HolidaySet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set, ok := c.years[year]
	return set, ok
}

// Store caches set for year unless the year is already present,
// and returns the set that ends up cached.
func (c *HolidayCache) Store(year int, set HolidaySet) HolidaySet {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.years[year]; ok {
		return existing
	}
	c.years[year] = set
	return set
}

// Len returns the number of cached years
func (c *HolidayCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.years)
}
