package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"culture-explorer/internal/observability"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// userAgent identifies the service to the public Nominatim instance, as its
// usage policy requires.
const userAgent = "culture-explorer/1.0"

// Result is the outcome of a geocoding lookup. Found is false when the
// service returned no usable candidate.
type Result struct {
	Lat   float64
	Lon   float64
	Found bool
}

// Resolver resolves a normalized location key to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, key string) (Result, error)
}

// Client looks up coordinates from a Nominatim-compatible geocoding service.
// Calls are spaced by a minimum delay to stay polite toward the shared
// public instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     zerolog.Logger

	mu       sync.Mutex
	nextSlot time.Time
}

// NewClient creates a geocoding client. An empty baseURL selects the public
// Nominatim instance. A non-positive delay disables call spacing.
func NewClient(baseURL string, timeout, delay time.Duration, metrics *observability.Metrics, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		delay:      delay,
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
}

// Resolve queries the geocoding service with the key as free text, limited to
// the single best match. The candidate coordinates arrive string-encoded; a
// candidate that does not parse to finite numbers counts as not found.
func (c *Client) Resolve(ctx context.Context, key string) (Result, error) {
	c.waitTurn()

	params := url.Values{
		"format": {"json"},
		"limit":  {"1"},
		"q":      {key},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.GeocodeDuration.Observe(c.clock.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("geocode: status %d: %s", resp.StatusCode, body)
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("geocode: decode response: %w", err)
	}

	if len(candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return Result{}, nil
	}

	lat, latErr := strconv.ParseFloat(candidates[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(candidates[0].Lon, 64)
	if latErr != nil || lonErr != nil || !finite(lat) || !finite(lon) {
		c.logger.Debug().Str("key", key).Msg("geocode candidate had unparseable coordinates")
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return Result{}, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return Result{Lat: lat, Lon: lon, Found: true}, nil
}

// waitTurn blocks until the politeness window since the previous upstream
// call has elapsed.
func (c *Client) waitTurn() {
	if c.delay <= 0 {
		return
	}

	c.mu.Lock()
	now := c.clock.Now()
	wait := c.nextSlot.Sub(now)
	if wait > 0 {
		c.nextSlot = c.nextSlot.Add(c.delay)
	} else {
		wait = 0
		c.nextSlot = now.Add(c.delay)
	}
	c.mu.Unlock()

	if wait > 0 {
		c.clock.Sleep(wait)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// candidate is a single match in the Nominatim search response. Coordinates
// are string-encoded by the API.
type candidate struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}
