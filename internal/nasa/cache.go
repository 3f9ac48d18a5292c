package nasa

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/astroriga/skywatch/internal/observability"
)

// APODSource fetches an Astronomy Picture of the Day.
type APODSource interface {
	APOD(ctx context.Context, date string) (*APOD, error)
}

// CachedAPOD wraps an APODSource with an in-memory LRU cache keyed by date.
// An empty date resolves to today's UTC date, so "latest" requests roll over
// naturally at midnight instead of pinning a stale entry.
type CachedAPOD struct {
	inner   APODSource
	cache   *lruCache
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedAPOD creates a cache decorator around an APOD source. clock and
// metrics may be nil.
func NewCachedAPOD(inner APODSource, maxEntries int, clock clockwork.Clock, metrics *observability.Metrics) *CachedAPOD {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedAPOD{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		clock:   clock,
		metrics: metrics,
	}
}

// APOD implements APODSource.
func (c *CachedAPOD) APOD(ctx context.Context, date string) (*APOD, error) {
	key := date
	if key == "" {
		key = c.clock.Now().UTC().Format(time.DateOnly)
	}

	if apod, ok := c.cache.get(key); ok {
		c.count("hit")
		return apod, nil
	}
	c.count("miss")

	apod, err := c.inner.APOD(ctx, date)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, apod)
	return apod, nil
}

func (c *CachedAPOD) count(result string) {
	if c.metrics != nil {
		c.metrics.APODCache.WithLabelValues(result).Inc()
	}
}

// lruCache is a small thread-safe LRU cache for APOD entries.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *APOD
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*APOD, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *APOD) {
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
