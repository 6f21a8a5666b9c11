package openmeteo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
)

// CachedForecaster wraps a Forecaster with an in-memory LRU cache. Entries
// are keyed by coordinates and the current UTC hour, so a cached model run
// naturally expires when the next hourly run becomes available. This mirrors
// the one-hour response cache the frame generator has always used.
type CachedForecaster struct {
	inner   domain.Forecaster
	cache   *lruCache
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewCachedForecaster creates a cache decorator around a forecaster.
func NewCachedForecaster(inner domain.Forecaster, maxEntries int, metrics *observability.Metrics) *CachedForecaster {
	return &CachedForecaster{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
}

func (c *CachedForecaster) FetchHourly(ctx context.Context, lat, lon float64) (domain.HourlyForecast, error) {
	hour := c.clock.Now().UTC().Truncate(time.Hour)
	key := fmt.Sprintf("%.4f,%.4f|%s", lat, lon, hour.Format("2006-01-02T15"))

	if forecast, ok := c.cache.get(key); ok {
		c.metrics.ForecastCache.WithLabelValues("hit").Inc()
		return forecast, nil
	}
	c.metrics.ForecastCache.WithLabelValues("miss").Inc()

	forecast, err := c.inner.FetchHourly(ctx, lat, lon)
	if err != nil {
		return forecast, err
	}
	// Only cache responses with data so a degraded upstream can be retried.
	if len(forecast.Times) > 0 {
		c.cache.put(key, forecast)
	}
	return forecast, nil
}

// lruCache is a simple thread-safe LRU cache for hourly forecasts.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.HourlyForecast
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.HourlyForecast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.HourlyForecast{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.HourlyForecast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
