package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storeops/backend/internal/application/reconcile"
)

const summaryKeyPrefix = "stats:summary:"

// RedisSummaryCache shares computed ledger summaries across server
// instances. Entries expire so a missed invalidation self-heals.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryCache creates a Redis-backed summary cache
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(storeID uuid.UUID) string {
	return summaryKeyPrefix + storeID.String()
}

// Get returns the cached summary for a store, or nil on miss
func (c *RedisSummaryCache) Get(ctx context.Context, storeID uuid.UUID) (*reconcile.StatsResponse, error) {
	payload, err := c.client.Get(ctx, summaryKey(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}

	var summary reconcile.StatsResponse
	if err := json.Unmarshal(payload, &summary); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, nil
	}
	return &summary, nil
}

// Set stores the summary for a store with the cache TTL
func (c *RedisSummaryCache) Set(ctx context.Context, storeID uuid.UUID, summary *reconcile.StatsResponse) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(storeID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary of one store
func (c *RedisSummaryCache) Invalidate(ctx context.Context, storeID uuid.UUID) error {
	if err := c.client.Del(ctx, summaryKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached summary
func (c *RedisSummaryCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, summaryKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate summary cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan summary cache: %w", err)
	}
	return nil
}

// Ensure RedisSummaryCache implements SummaryCache
var _ reconcile.SummaryCache = (*RedisSummaryCache)(nil)
