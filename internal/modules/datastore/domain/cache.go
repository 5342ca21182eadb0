package domain

import (
	"time"

	"irctrack/internal/modules/datastore/dto"
)

// CacheKey identifies one cached read. Invalidation is coarse: every key of a
// table is dropped by a write to that table, whatever its range.
type CacheKey struct {
	Table string
	Range string
}

type CacheEntry struct {
	Rows      []dto.Row
	FetchedAt time.Time
}

// Fresh reports whether the entry may still be served at now.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// SheetRow converts a zero-based data-row index into the 1-based row number of
// a table whose first row holds the headers.
func SheetRow(index int) int {
	return index + 2
}
