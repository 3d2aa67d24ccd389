package reconcile

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
)

// SummaryCache stores computed ledger summaries per store. Get returns
// (nil, nil) on a miss. Implementations live in infrastructure/cache.
type SummaryCache interface {
	Get(ctx context.Context, storeID uuid.UUID) (*StatsResponse, error)
	Set(ctx context.Context, storeID uuid.UUID, summary *StatsResponse) error
	Invalidate(ctx context.Context, storeID uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

// CachedStatsService serves ledger summaries from a cache, recomputing on
// miss. Cache failures degrade to a recompute and are only logged; the
// summary itself is always derived from the ledger.
type CachedStatsService struct {
	inner  *StatsService
	cache  SummaryCache
	logger *zap.Logger
}

// NewCachedStatsService creates a caching wrapper around a StatsService
func NewCachedStatsService(inner *StatsService, cache SummaryCache, logger *zap.Logger) *CachedStatsService {
	return &CachedStatsService{inner: inner, cache: cache, logger: logger}
}

// Summarize returns the cached summary for the session's store, computing
// and storing it when absent.
func (s *CachedStatsService) Summarize(ctx context.Context, session shared.Session) (*StatsResponse, error) {
	cached, err := s.cache.Get(ctx, session.StoreID)
	if err != nil {
		s.logger.Warn("summary cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	summary, err := s.inner.Summarize(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, session.StoreID, summary); err != nil {
		s.logger.Warn("summary cache write failed", zap.Error(err))
	}
	return summary, nil
}

// Refresh implements Refresher by dropping every cached summary. The next
// read per store recomputes from the ledger, so stale foreign-session data
// never outlives a notification.
func (s *CachedStatsService) Refresh(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

var _ Refresher = (*CachedStatsService)(nil)
