package geocode

import (
	"context"
	"errors"
	"sync"

	"culture-explorer/internal/observability"
)

// ErrEmptyKey is returned when a resolver is asked to geocode an entry that
// has no usable location fields.
var ErrEmptyKey = errors.New("geocode: empty location key")

type coordinates struct {
	lat float64
	lon float64
}

// CachedResolver wraps a Resolver with an in-memory cache keyed by location
// key. The cache lives for the process lifetime and is never evicted; only
// successful resolutions are stored, so failures and not-found responses can
// be retried on a later pass.
type CachedResolver struct {
	inner   Resolver
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[string]coordinates
}

// NewCachedResolver creates a cache decorator around a resolver.
func NewCachedResolver(inner Resolver, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		metrics: metrics,
		entries: make(map[string]coordinates),
	}
}

// Resolve serves a previously resolved key from the cache, otherwise issues
// one upstream lookup. At most one upstream call is made per key per process
// lifetime once a key has resolved.
func (c *CachedResolver) Resolve(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{}, ErrEmptyKey
	}

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return Result{Lat: cached.lat, Lon: cached.lon, Found: true}, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Resolve(ctx, key)
	if err != nil || !result.Found {
		return result, err
	}

	c.mu.Lock()
	c.entries[key] = coordinates{lat: result.Lat, lon: result.Lon}
	c.mu.Unlock()

	return result, nil
}
