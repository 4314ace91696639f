// Package enrichment drives the best-effort geocoding of entries that were
// submitted without coordinates. One pass sweeps the current in-memory entry
// list, resolves every entry that still lacks coordinates, updates the list
// as results arrive, and persists the batch of resolved coordinates back to
// the store at the end of the pass.
package enrichment

import (
	"context"
	"sync"
	"time"

	"culture-explorer/internal/geocode"
	"culture-explorer/internal/models"
	"culture-explorer/internal/observability"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Store persists resolved coordinates. A failure is logged and discarded;
// the in-memory list stays ahead of the store until the next full reload.
type Store interface {
	UpdateCoordinates(ctx context.Context, updates []models.CoordinateUpdate) error
}

// Coordinator owns the shared in-memory entry list and runs enrichment
// passes over it. At most one pass is in flight at a time; triggers that
// arrive while a pass is running or within the retry interval are dropped.
type Coordinator struct {
	resolver      geocode.Resolver
	store         Store
	retryInterval time.Duration
	clock         clockwork.Clock
	metrics       *observability.Metrics
	logger        zerolog.Logger

	mu          sync.Mutex
	entries     []models.Entry
	loadedAt    time.Time
	working     bool
	lastAttempt time.Time
	closed      bool
}

// NewCoordinator creates a coordinator around the given resolver and store.
func NewCoordinator(resolver geocode.Resolver, store Store, retryInterval time.Duration, metrics *observability.Metrics, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		resolver:      resolver,
		store:         store,
		retryInterval: retryInterval,
		clock:         clockwork.NewRealClock(),
		metrics:       metrics,
		logger:        logger,
	}
}

// SetClock swaps the time source. Tests inject a fake clock to exercise the
// retry throttle deterministically.
func (c *Coordinator) SetClock(clock clockwork.Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// Replace installs a fresh entry list, typically loaded from the store. Any
// coordinates a previous pass resolved but failed to persist are reverted,
// matching the reload semantics of the map view.
func (c *Coordinator) Replace(entries []models.Entry) {
	copied := make([]models.Entry, len(entries))
	copy(copied, entries)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = copied
	c.loadedAt = c.clock.Now()
}

// Snapshot returns a copy of the current entry list.
func (c *Coordinator) Snapshot() []models.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Stale reports whether the entry list is older than maxAge or was never
// loaded.
func (c *Coordinator) Stale(maxAge time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedAt.IsZero() || c.clock.Since(c.loadedAt) > maxAge
}

// Geocoding reports whether an enrichment pass is in flight. The map view
// uses it to show a loading state.
func (c *Coordinator) Geocoding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working
}

// Close marks the coordinator as torn down. A pass that is already running
// finishes its external calls but stops mutating shared state.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Trigger runs one enrichment pass, synchronously, if none is in flight and
// the retry interval has elapsed since the last attempt. It returns false
// when the trigger was dropped. Callers that must not block run it in a
// goroutine.
func (c *Coordinator) Trigger(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed || c.working {
		c.mu.Unlock()
		return false
	}
	now := c.clock.Now()
	if !c.lastAttempt.IsZero() && now.Sub(c.lastAttempt) < c.retryInterval {
		c.mu.Unlock()
		return false
	}
	c.lastAttempt = now
	c.working = true

	missing := make([]models.Entry, 0)
	for _, e := range c.entries {
		if !e.HasCoordinates() {
			missing = append(missing, e)
		}
	}
	c.mu.Unlock()

	c.metrics.EnrichmentRunning.Set(1)
	defer func() {
		c.mu.Lock()
		c.working = false
		c.mu.Unlock()
		c.metrics.EnrichmentRunning.Set(0)
	}()

	c.runPass(ctx, missing, now)
	return true
}

// runPass resolves each selected entry in list order. No failure escapes:
// resolution errors leave the entry unresolved for a later pass, and a
// failed write-back leaves the in-memory list authoritative.
func (c *Coordinator) runPass(ctx context.Context, missing []models.Entry, started time.Time) {
	defer func() {
		c.metrics.EnrichmentPasses.Inc()
		c.metrics.EnrichmentDuration.Observe(c.clock.Since(started).Seconds())
	}()

	if len(missing) == 0 {
		// Everything is resolved; forget the throttle so the next trigger
		// after new submissions runs immediately.
		c.mu.Lock()
		c.lastAttempt = time.Time{}
		c.mu.Unlock()
		return
	}

	c.logger.Info().Int("missing", len(missing)).Msg("starting enrichment pass")

	var updates []models.CoordinateUpdate
	for _, e := range missing {
		key := e.LocationKey()
		if key == "" {
			// No usable location fields; unresolvable for this session.
			continue
		}

		result, err := c.resolver.Resolve(ctx, key)
		if err != nil {
			c.logger.Warn().Err(err).Int64("entry_id", e.ID).Str("key", key).Msg("geocoding failed, will retry on a later pass")
			continue
		}
		if !result.Found {
			c.logger.Debug().Int64("entry_id", e.ID).Str("key", key).Msg("no geocoding match")
			continue
		}

		if c.apply(e.ID, result.Lat, result.Lon) {
			updates = append(updates, models.CoordinateUpdate{ID: e.ID, Lat: result.Lat, Lon: result.Lon})
			c.metrics.EntriesResolved.Inc()
		}
	}

	if len(updates) == 0 {
		return
	}

	if err := c.store.UpdateCoordinates(ctx, updates); err != nil {
		c.metrics.PersistenceFailed.Inc()
		c.logger.Warn().Err(err).Int("updates", len(updates)).Msg("coordinate write-back failed, map stays ahead of store until next reload")
	}
}

// apply sets the coordinates on the in-memory entry so the map can show
// partial progress mid-pass. Returns false after teardown.
func (c *Coordinator) apply(id int64, lat, lon float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries[i].Lat = &lat
			c.entries[i].Lon = &lon
			return true
		}
	}
	return false
}
