package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"irctrack/internal/modules/datastore/domain"
	"irctrack/internal/modules/datastore/dto"
	datastoreout "irctrack/internal/modules/datastore/port/out"
	"irctrack/internal/platform/clock"
	apperrors "irctrack/internal/platform/errors"
	"irctrack/internal/platform/metrics"
)

// CacheService fronts a RemoteStore with a TTL cache keyed by (table, range).
// Reads within the TTL never reach the remote store; any write drops every
// cached range of the written table once the remote call has returned.
type CacheService struct {
	remote  datastoreout.RemoteStore
	clock   clock.Clock
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries *lru.Cache[domain.CacheKey, domain.CacheEntry]
	// generations counts invalidations per table and purge counts
	// ClearCache calls. A fetch only fills the cache when neither moved
	// while it was in flight.
	generations map[string]uint64
	purge       uint64
}

func NewCacheService(remote datastoreout.RemoteStore, clk clock.Clock, ttl time.Duration, size int, logger *slog.Logger, m *metrics.Metrics) (*CacheService, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	entries, err := lru.New[domain.CacheKey, domain.CacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("new cache: %w", err)
	}
	return &CacheService{
		remote:  remote,
		clock:   clk,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
		entries: entries,

		generations: map[string]uint64{},
	}, nil
}

// ReadRows returns the cached rows for (table, rng) when fresh, fetching and
// caching them otherwise. Callers must treat the returned rows as read-only.
func (s *CacheService) ReadRows(ctx context.Context, table, rng string) ([]dto.Row, error) {
	key := domain.CacheKey{Table: table, Range: rng}

	s.mu.Lock()
	entry, ok := s.entries.Get(key)
	generation, purge := s.generations[table], s.purge
	s.mu.Unlock()
	if ok && entry.Fresh(s.clock.Now(), s.ttl) {
		s.metrics.CacheRequests.WithLabelValues(table, "hit").Inc()
		s.logger.Debug("cache hit", "table", table, "range", rng)
		return entry.Rows, nil
	}
	s.metrics.CacheRequests.WithLabelValues(table, "miss").Inc()

	rows, err := s.remote.Fetch(ctx, table, rng)
	if err != nil {
		s.recordFailure("read", table, err)
		return nil, err
	}

	s.mu.Lock()
	stale := s.generations[table] != generation || s.purge != purge
	if !stale {
		s.entries.Add(key, domain.CacheEntry{Rows: rows, FetchedAt: s.clock.Now()})
	}
	s.mu.Unlock()
	if stale {
		s.logger.Debug("cache fill skipped, table written during fetch", "table", table, "range", rng)
		return rows, nil
	}
	s.logger.Debug("cache fill", "table", table, "range", rng, "rows", len(rows))
	return rows, nil
}

func (s *CacheService) AppendRow(ctx context.Context, table string, row dto.Row) error {
	defer s.invalidate(table)
	if err := s.remote.Append(ctx, table, row.Clone()); err != nil {
		s.recordFailure("append", table, err)
		return err
	}
	return nil
}

func (s *CacheService) UpdateRow(ctx context.Context, table string, index int, row dto.Row) error {
	defer s.invalidate(table)
	if index < 0 {
		return apperrors.NewStoreError("update", table, apperrors.KindNotFound, fmt.Errorf("row index %d", index))
	}
	if err := s.remote.Update(ctx, table, index, row.Clone()); err != nil {
		s.recordFailure("update", table, err)
		return err
	}
	return nil
}

func (s *CacheService) DeleteRow(ctx context.Context, table string, index int) error {
	defer s.invalidate(table)
	if index < 0 {
		return apperrors.NewStoreError("delete", table, apperrors.KindNotFound, fmt.Errorf("row index %d", index))
	}
	if err := s.remote.Delete(ctx, table, index); err != nil {
		s.recordFailure("delete", table, err)
		return err
	}
	return nil
}

// ClearCache drops every entry regardless of table or age.
func (s *CacheService) ClearCache() {
	s.mu.Lock()
	s.entries.Purge()
	s.purge++
	s.mu.Unlock()
	s.metrics.Refreshes.Inc()
	s.logger.Debug("cache cleared")
}

// Ping bypasses the cache.
func (s *CacheService) Ping(ctx context.Context) (string, error) {
	return s.remote.Ping(ctx)
}

// Len reports the number of cached ranges, fresh or not.
func (s *CacheService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

func (s *CacheService) invalidate(table string) {
	s.mu.Lock()
	s.generations[table]++
	dropped := 0
	for _, key := range s.entries.Keys() {
		if key.Table == table {
			s.entries.Remove(key)
			dropped++
		}
	}
	s.mu.Unlock()
	s.metrics.CacheInvalidations.WithLabelValues(table).Inc()
	s.logger.Debug("cache invalidated", "table", table, "ranges", dropped)
}

func (s *CacheService) recordFailure(op, table string, err error) {
	kind := apperrors.KindOf(err)
	if kind == "" {
		kind = apperrors.KindTransient
	}
	s.metrics.RemoteErrors.WithLabelValues(table, string(kind)).Inc()
	s.logger.Error("remote store failure", "op", op, "table", table, "kind", kind, "err", err)
}
