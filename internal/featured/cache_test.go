package featured

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apierrors "github.com/driftnote/backend/internal/errors"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Cache code logs; route it somewhere harmless for tests.
	_ = logger.Initialize("error", "/tmp/driftnote-featured-test.log")
}

// fakeSource is a scriptable ranking source that counts its calls
type fakeSource struct {
	mu         sync.Mutex
	calls      int32
	candidates []ranking.ScoredCandidate
	err        error
	delay      time.Duration
}

func (f *fakeSource) ComputeRanking(ctx context.Context, key ranking.Key, depth int) ([]ranking.ScoredCandidate, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]ranking.ScoredCandidate, len(f.candidates))
	copy(out, f.candidates)
	return out, nil
}

func (f *fakeSource) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func (f *fakeSource) set(candidates []ranking.ScoredCandidate, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = candidates
	f.err = err
}

func scored(n int) []ranking.ScoredCandidate {
	out := make([]ranking.ScoredCandidate, n)
	for i := 0; i < n; i++ {
		out[i] = ranking.ScoredCandidate{
			ID:    fmt.Sprintf("id%03d", n-i),
			Score: float64(n - i),
		}
	}
	return out
}

func TestRankingCacheColdFetch(t *testing.T) {
	src := &fakeSource{candidates: scored(5)}
	cache := NewRankingCache(src)

	ids, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	require.Len(t, ids, 5)
	assert.Equal(t, 1, src.callCount())

	// Descending by score, as the source produced it
	assert.Equal(t, []string{"id005", "id004", "id003", "id002", "id001"}, ids)
}

func TestRankingCacheServesWithinTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	src := &fakeSource{candidates: scored(10)}
	cache := NewRankingCache(src, WithClock(func() time.Time { return clock() }))

	first, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)

	// Underlying scores change, but the snapshot must not
	src.set(scored(3), nil)

	second, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-fetch within TTL must return an identical sequence")
	assert.Equal(t, 1, src.callCount())

	// Past the TTL the cache refreshes and sees the new ranking
	clock = func() time.Time { return now.Add(DefaultTTL + time.Second) }
	third, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	assert.Len(t, third, 3)
	assert.Equal(t, 2, src.callCount())
}

func TestRankingCacheCoalescesConcurrentMisses(t *testing.T) {
	src := &fakeSource{candidates: scored(20), delay: 50 * time.Millisecond}
	cache := NewRankingCache(src)

	const callers = 25
	results := make([][]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Get(context.Background(), ranking.KeyGallery)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, src.callCount(), "concurrent misses must trigger exactly one source call")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i], "all callers must share the refreshed entry")
	}
}

func TestRankingCacheFailOpen(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	src := &fakeSource{candidates: scored(5)}
	cache := NewRankingCache(src, WithClock(func() time.Time { return clock() }))

	good, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)

	// Source starts failing after the snapshot expires
	src.set(nil, errors.New("redis down"))
	clock = func() time.Time { return now.Add(DefaultTTL + time.Minute) }

	stale, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err, "refresh failure with a prior snapshot must not surface")
	assert.Equal(t, good, stale, "the last good entry keeps being served")
}

func TestRankingCacheColdFailurePropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("redis down")}
	cache := NewRankingCache(src)

	_, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.Error(t, err)

	apiErr, ok := apierrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrSourceUnavailable, apiErr.Code)
}

func TestRankingCacheDeduplicatesCandidates(t *testing.T) {
	src := &fakeSource{candidates: []ranking.ScoredCandidate{
		{ID: "a", Score: 3},
		{ID: "b", Score: 2},
		{ID: "a", Score: 1},
	}}
	cache := NewRankingCache(src)

	ids, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestRankingCacheInvalidate(t *testing.T) {
	src := &fakeSource{candidates: scored(5)}
	cache := NewRankingCache(src)

	_, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	require.Equal(t, 1, src.callCount())

	cache.Invalidate(ranking.KeyGallery)

	_, err = cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())
}

func TestRankingCachePerKeyIsolation(t *testing.T) {
	src := &fakeSource{candidates: scored(5)}
	cache := NewRankingCache(src)

	_, err := cache.Get(context.Background(), ranking.KeyGallery)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), ranking.KeyNotes)
	require.NoError(t, err)

	assert.Equal(t, 2, src.callCount(), "each key refreshes independently")
}
