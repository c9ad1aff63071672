package catalog

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a snapshot counts as fresh. The catalog
// changes rarely, so one fetch a day is enough.
const DefaultCacheTTL = 24 * time.Hour

// snapshotCache holds one catalog snapshot with an explicit TTL. Reads past
// the TTL still return the stale snapshot; callers decide whether to refresh.
type snapshotCache struct {
	mu         sync.RWMutex
	snapshot   *Snapshot
	fetchedAt  time.Time
	ttl        time.Duration
	refreshing bool
	now        func() time.Time
}

// NewSnapshotCache creates an empty cache with the given TTL
func NewSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached snapshot, whether it is still fresh, and whether
// any snapshot exists at all.
func (c *snapshotCache) Get() (snap *Snapshot, fresh bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, false, false
	}
	return c.snapshot, c.now().Sub(c.fetchedAt) < c.ttl, true
}

// Set replaces the cached snapshot and resets its age
func (c *snapshotCache) Set(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snap
	c.fetchedAt = c.now()
}

// BeginRefresh claims the single refresh slot. It returns false when a
// refresh is already in flight.
func (c *snapshotCache) BeginRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refreshing {
		return false
	}
	c.refreshing = true
	return true
}

// EndRefresh releases the refresh slot
func (c *snapshotCache) EndRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false
}
