package mapping

import (
	"context"
	"sync"
	"time"

	"lotconv/internal"
)

// Cache is a read-through, time-bounded copy of the remote mapping table.
// The web server shares one instance across requests, so access is guarded.
// A remote append from another session can be served stale for at most the
// TTL window.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	entries   []internal.MappingEntry
	fetchedAt time.Time
	loaded    bool
}

func NewCache(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// Entries returns the cached mapping, refreshing it when the staleness
// window has elapsed. On a failed refresh the previous entries are kept and
// the error is returned alongside them; callers that can degrade treat the
// result as an empty mapping and continue.
func (c *Cache) Entries(ctx context.Context) ([]internal.MappingEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.fetchedAt) <= c.ttl {
		return c.entries, nil
	}

	fetched, err := c.store.Fetch(ctx)
	if err != nil {
		return c.entries, err
	}

	c.entries = fetched
	c.fetchedAt = c.now()
	c.loaded = true
	return c.entries, nil
}

// Keys returns the membership set for classification. A fetch failure
// degrades to the stale (possibly empty) set, with the error passed through
// for the caller to log.
func (c *Cache) Keys(ctx context.Context) (map[string]struct{}, error) {
	entries, err := c.Entries(ctx)
	return KeySet(entries), err
}

// Append writes through to the store and invalidates the cache, so the next
// read observes the new entry. The cache is untouched when the write fails.
func (c *Cache) Append(ctx context.Context, entry internal.MappingEntry) error {
	if err := c.store.Append(ctx, entry); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
}
