package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/storeops/backend/internal/application/reconcile"
	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
)

// SummaryInvalidationHandler drops a store's cached summary whenever its
// returns ledger changes. Invalidation failures are logged; the TTL bounds
// the resulting staleness.
type SummaryInvalidationHandler struct {
	cache  reconcile.SummaryCache
	logger *zap.Logger
}

// NewSummaryInvalidationHandler creates a new SummaryInvalidationHandler
func NewSummaryInvalidationHandler(cache reconcile.SummaryCache, logger *zap.Logger) *SummaryInvalidationHandler {
	return &SummaryInvalidationHandler{cache: cache, logger: logger}
}

// Handle implements shared.EventHandler
func (h *SummaryInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.StoreID()); err != nil {
		h.logger.Warn("summary invalidation failed",
			zap.String("store_id", event.StoreID().String()),
			zap.Error(err),
		)
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (h *SummaryInvalidationHandler) EventTypes() []string {
	return []string{
		returns.EventTypeReturnCreated,
		returns.EventTypeReturnUpdated,
		returns.EventTypeReturnStatusChanged,
		returns.EventTypeReturnDeleted,
	}
}

// Ensure SummaryInvalidationHandler implements EventHandler
var _ shared.EventHandler = (*SummaryInvalidationHandler)(nil)
