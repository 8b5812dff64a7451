package cache

import (
	"context"
	"sync"
	"time"

	appsourcing "github.com/sourcingops/backend/internal/application/sourcing"
	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// entry is a cached snapshot with its expiration
type entry struct {
	snapshot  *sourcing.VerificationSnapshot
	expiresAt time.Time
}

// MemorySnapshotCache caches verification snapshots in process memory.
// Suitable for the single-instance deployment; a background goroutine
// evicts expired entries.
type MemorySnapshotCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// MemoryCacheOption configures a MemorySnapshotCache
type MemoryCacheOption func(*MemorySnapshotCache)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemorySnapshotCache) {
		c.now = now
	}
}

// NewMemorySnapshotCache creates an in-memory snapshot cache with the given TTL
func NewMemorySnapshotCache(ttl time.Duration, opts ...MemoryCacheOption) *MemorySnapshotCache {
	c := &MemorySnapshotCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached snapshot for the sheet if present and not expired
func (c *MemorySnapshotCache) Get(ctx context.Context, sheetID string) (*sourcing.VerificationSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[sheetID]
	if !exists {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.snapshot, true
}

// Put stores the snapshot under its sheet ID, resetting the TTL
func (c *MemorySnapshotCache) Put(ctx context.Context, snapshot *sourcing.VerificationSnapshot) {
	if snapshot == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[snapshot.SheetID] = entry{
		snapshot:  snapshot,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate removes the sheet's cached snapshot
func (c *MemorySnapshotCache) Invalidate(ctx context.Context, sheetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sheetID)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *MemorySnapshotCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of cached sheets (for testing/monitoring)
func (c *MemorySnapshotCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemorySnapshotCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MemorySnapshotCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for sheetID, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, sheetID)
		}
	}
}

var _ appsourcing.SnapshotCache = (*MemorySnapshotCache)(nil)
