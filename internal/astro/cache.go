package astro

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Bucket widths used to align cached queries. Conversions query overlapping
// windows around each instant; aligning them to fixed buckets lets nearby
// conversions share cached results.
const (
	phaseBucket  = 32 * 24 * time.Hour
	seasonBucket = 366 * 24 * time.Hour
)

// DefaultCacheSize is the number of buckets kept when no size is given.
const DefaultCacheSize = 512

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

type bucketKey struct {
	kind  byte // 'p' phases, 's' seasons
	start int64
}

// CachedProvider wraps a Provider and memoizes its results in fixed-width,
// epoch-aligned buckets. Queries are idempotent, so caching never changes a
// result. Concurrent misses for the same bucket share one upstream call.
type CachedProvider struct {
	next    Provider
	maxSize int

	mu      sync.Mutex
	phases  map[bucketKey][]PhaseEvent
	seasons map[bucketKey][]SeasonEvent
	order   []bucketKey

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedProvider wraps next. A non-positive size uses DefaultCacheSize.
func NewCachedProvider(next Provider, size int) *CachedProvider {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedProvider{
		next:    next,
		maxSize: size,
		phases:  make(map[bucketKey][]PhaseEvent),
		seasons: make(map[bucketKey][]SeasonEvent),
	}
}

// LunarPhaseEvents implements Provider.
func (c *CachedProvider) LunarPhaseEvents(ctx context.Context, start, end time.Time) ([]PhaseEvent, error) {
	var out []PhaseEvent
	for _, b := range buckets(start, end, phaseBucket) {
		events, err := c.phaseBucket(ctx, b)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			if inRange(e.Time, start, end) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// SolarSeasonEvents implements Provider.
func (c *CachedProvider) SolarSeasonEvents(ctx context.Context, start, end time.Time) ([]SeasonEvent, error) {
	var out []SeasonEvent
	for _, b := range buckets(start, end, seasonBucket) {
		events, err := c.seasonBucket(ctx, b)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			if inRange(e.Time, start, end) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// Stats returns a snapshot of cache counters.
func (c *CachedProvider) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.order)
	c.mu.Unlock()
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: entries,
	}
}

func (c *CachedProvider) phaseBucket(ctx context.Context, start time.Time) ([]PhaseEvent, error) {
	key := bucketKey{kind: 'p', start: start.Unix()}

	c.mu.Lock()
	events, ok := c.phases[key]
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
		return events, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("p:%d", key.start), func() (any, error) {
		c.misses.Add(1)
		events, err := c.next.LunarPhaseEvents(ctx, start, start.Add(phaseBucket))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.phases[key] = events
		c.remember(key)
		c.mu.Unlock()
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]PhaseEvent), nil
}

func (c *CachedProvider) seasonBucket(ctx context.Context, start time.Time) ([]SeasonEvent, error) {
	key := bucketKey{kind: 's', start: start.Unix()}

	c.mu.Lock()
	events, ok := c.seasons[key]
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
		return events, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("s:%d", key.start), func() (any, error) {
		c.misses.Add(1)
		events, err := c.next.SolarSeasonEvents(ctx, start, start.Add(seasonBucket))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.seasons[key] = events
		c.remember(key)
		c.mu.Unlock()
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]SeasonEvent), nil
}

// remember records key in insertion order and evicts the oldest entries once
// the cache is full. Callers hold c.mu.
func (c *CachedProvider) remember(key bucketKey) {
	c.order = append(c.order, key)
	for len(c.order) > c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		if oldest.kind == 'p' {
			delete(c.phases, oldest)
		} else {
			delete(c.seasons, oldest)
		}
	}
}

// buckets returns the starts of the epoch-aligned buckets of the given width
// that intersect [start, end).
func buckets(start, end time.Time, width time.Duration) []time.Time {
	if !start.Before(end) {
		return nil
	}
	w := int64(width / time.Second)
	first := floorDiv(start.Unix(), w) * w

	var out []time.Time
	for b := first; time.Unix(b, 0).Before(end); b += w {
		out = append(out, time.Unix(b, 0).UTC())
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
