// Package featured implements the ranking cache, secondary reorder, and
// cursor pagination that back the featured feed endpoints.
package featured

import (
	"context"
	"sync"
	"time"

	apierrors "github.com/driftnote/backend/internal/errors"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/metrics"
	"github.com/driftnote/backend/internal/ranking"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is the maximum age of a cached ranking snapshot
	DefaultTTL = 30 * time.Minute

	// DefaultDepth is the fixed depth fetched from the ranking source.
	// Every caller shares one snapshot per key, so the fetch depth must
	// cover the largest page any endpoint can request.
	DefaultDepth = 100

	// sourceTimeout bounds a single ranking source call
	sourceTimeout = 10 * time.Second
)

// snapshot is one published ranking cache entry. Snapshots are immutable:
// a refresh builds a new one and swaps the map pointer, it never mutates
// a published slice.
type snapshot struct {
	orderedIDs []string
	fetchedAt  time.Time
}

// RankingCache holds the last fetched ranking per key and refreshes it
// when stale. Concurrent readers are cheap; at most one refresh per key
// is in flight at a time, and concurrent stale readers share its result.
type RankingCache struct {
	source ranking.Source
	ttl    time.Duration
	depth  int

	mu      sync.RWMutex
	entries map[ranking.Key]*snapshot

	flight singleflight.Group

	// now is swappable for tests
	now func() time.Time
}

// CacheOption configures a RankingCache
type CacheOption func(*RankingCache)

// WithTTL overrides the default snapshot TTL
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RankingCache) { c.ttl = ttl }
}

// WithDepth overrides the default fetch depth
func WithDepth(depth int) CacheOption {
	return func(c *RankingCache) { c.depth = depth }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) CacheOption {
	return func(c *RankingCache) { c.now = now }
}

// NewRankingCache creates a cache over the given ranking source
func NewRankingCache(source ranking.Source, opts ...CacheOption) *RankingCache {
	c := &RankingCache{
		source:  source,
		ttl:     DefaultTTL,
		depth:   DefaultDepth,
		entries: make(map[ranking.Key]*snapshot),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the ordered identifier list for a ranking key, refreshing
// from the source if the cached snapshot is stale or absent. The returned
// slice is a shared immutable snapshot; callers must not modify it.
//
// Refresh failures are absorbed when an older snapshot exists (the stale
// list keeps being served) and surface as SOURCE_UNAVAILABLE otherwise.
func (c *RankingCache) Get(ctx context.Context, key ranking.Key) ([]string, error) {
	m := metrics.Get()

	if snap, ok := c.fresh(key); ok {
		m.RankingCacheHitsTotal.WithLabelValues(string(key)).Inc()
		return snap.orderedIDs, nil
	}
	m.RankingCacheMissesTotal.WithLabelValues(string(key)).Inc()

	v, err, _ := c.flight.Do(string(key), func() (interface{}, error) {
		// A refresh may have been published while this caller was queued.
		if snap, ok := c.fresh(key); ok {
			return snap.orderedIDs, nil
		}
		return c.refresh(key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Invalidate drops the snapshot for a key so the next read refreshes.
// Used by the CLI after reseeding a ranking.
func (c *RankingCache) Invalidate(key ranking.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// fresh returns the snapshot for key if it exists and is within TTL
func (c *RankingCache) fresh(key ranking.Key) (*snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(snap.fetchedAt) >= c.ttl {
		return snap, false
	}
	return snap, true
}

// refresh fetches the ranking at the fixed depth and publishes a new
// snapshot. Runs inside the singleflight group, so at most one refresh
// per key is in flight. The source call is detached from any single
// caller's cancellation: other callers may be waiting on it.
func (c *RankingCache) refresh(key ranking.Key) ([]string, error) {
	m := metrics.Get()

	ctx, cancel := context.WithTimeout(context.Background(), sourceTimeout)
	defer cancel()

	start := c.now()
	candidates, err := c.source.ComputeRanking(ctx, key, c.depth)
	m.RankingRefreshDuration.WithLabelValues(string(key)).Observe(time.Since(start).Seconds())

	if err != nil {
		m.RankingCacheRefreshesTotal.WithLabelValues(string(key), "error").Inc()

		// Fail open: keep serving the previous snapshot if one exists.
		c.mu.RLock()
		stale, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			m.RankingCacheStaleServes.WithLabelValues(string(key)).Inc()
			logger.Warn("ranking refresh failed, serving stale snapshot",
				zap.String("key", string(key)),
				zap.Time("fetched_at", stale.fetchedAt),
				zap.Error(err),
			)
			return stale.orderedIDs, nil
		}
		return nil, apierrors.SourceUnavailable(string(key)).WithCause(err)
	}

	ids := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, cand := range candidates {
		if _, dup := seen[cand.ID]; dup {
			continue
		}
		seen[cand.ID] = struct{}{}
		ids = append(ids, cand.ID)
	}

	snap := &snapshot{orderedIDs: ids, fetchedAt: c.now()}
	c.mu.Lock()
	c.entries[key] = snap
	c.mu.Unlock()

	m.RankingCacheRefreshesTotal.WithLabelValues(string(key), "ok").Inc()
	logger.Log.Debug("ranking snapshot refreshed",
		zap.String("key", string(key)),
		zap.Int("depth", len(ids)),
	)

	return ids, nil
}
