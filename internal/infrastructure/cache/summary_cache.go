package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/application/reconcile"
)

// DefaultSummaryTTL bounds staleness when an invalidation is missed, e.g.
// a dropped pub/sub message.
const DefaultSummaryTTL = 5 * time.Minute

// InMemorySummaryCache is a per-instance summary cache used when Redis is
// not configured.
type InMemorySummaryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	summary   *reconcile.StatsResponse
	expiresAt time.Time
}

// NewInMemorySummaryCache creates an in-memory summary cache
func NewInMemorySummaryCache(ttl time.Duration) *InMemorySummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &InMemorySummaryCache{
		entries: make(map[uuid.UUID]inMemoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached summary for a store, or nil on miss
func (c *InMemorySummaryCache) Get(_ context.Context, storeID uuid.UUID) (*reconcile.StatsResponse, error) {
	c.mu.RLock()
	entry, ok := c.entries[storeID]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.summary, nil
}

// Set stores the summary for a store
func (c *InMemorySummaryCache) Set(_ context.Context, storeID uuid.UUID, summary *reconcile.StatsResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[storeID] = inMemoryEntry{summary: summary, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// Invalidate drops the cached summary of one store
func (c *InMemorySummaryCache) Invalidate(_ context.Context, storeID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, storeID)
	return nil
}

// InvalidateAll drops every cached summary
func (c *InMemorySummaryCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uuid.UUID]inMemoryEntry)
	return nil
}

// Ensure InMemorySummaryCache implements SummaryCache
var _ reconcile.SummaryCache = (*InMemorySummaryCache)(nil)
