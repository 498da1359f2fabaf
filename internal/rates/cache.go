package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long one fetched batch stays valid.
const DefaultTTL = 5 * time.Minute

// Fetcher is the upstream feed capability the cache wraps.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Snapshot, error)
}

// Cache is a single process-wide slot holding the last successfully fetched
// rate batch. The whole batch shares one TTL window; there is no per-pair
// expiry. A failed refresh never evicts a previously cached batch.
//
// The slot is read and written under a mutex but the upstream fetch runs
// outside it, so two views missing the cache at the same time may both hit
// the feed; both then overwrite the slot with equivalent data. That matches
// the access pattern of the views, which never coalesce requests.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	fetchedAt time.Time
	batch     []Snapshot
}

// NewCache wraps fetcher with a TTL slot. A nil clock uses time.Now, a
// non-positive ttl uses DefaultTTL.
func NewCache(fetcher Fetcher, ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{fetcher: fetcher, ttl: ttl, now: now}
}

// Get returns the cached batch while it is fresh, otherwise fetches,
// overwrites the slot and returns the new batch. Fetch failures propagate
// unchanged and leave the slot as it was.
func (c *Cache) Get(ctx context.Context) ([]Snapshot, error) {
	c.mu.Lock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		batch := c.batch
		c.mu.Unlock()
		return batch, nil
	}
	c.mu.Unlock()

	batch, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.fetchedAt = c.now()
	c.batch = batch
	c.mu.Unlock()

	slog.DebugContext(ctx, "Rate batch refreshed", "pairs", len(batch), "ttl", c.ttl)
	return batch, nil
}
