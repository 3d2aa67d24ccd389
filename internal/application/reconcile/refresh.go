package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
)

// Refresher recomputes a derived view of the returns ledger.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshListener coalesces ledger change notifications into refreshes.
// A notification arriving while a refresh is pending folds into it, so a
// burst of N changes triggers at most one refresh after the burst plus the
// one already in flight.
type RefreshListener struct {
	refresher Refresher
	logger    *zap.Logger
	pending   chan struct{}
}

// NewRefreshListener creates a listener for the given refresher.
func NewRefreshListener(refresher Refresher, logger *zap.Logger) *RefreshListener {
	return &RefreshListener{
		refresher: refresher,
		logger:    logger,
		pending:   make(chan struct{}, 1),
	}
}

// Handle implements shared.EventHandler. It never blocks the publisher.
func (l *RefreshListener) Handle(ctx context.Context, event shared.DomainEvent) error {
	l.Notify()
	return nil
}

// EventTypes implements shared.EventHandler.
func (l *RefreshListener) EventTypes() []string {
	return []string{
		returns.EventTypeReturnCreated,
		returns.EventTypeReturnUpdated,
		returns.EventTypeReturnStatusChanged,
		returns.EventTypeReturnDeleted,
	}
}

// Notify marks the ledger dirty. Safe for concurrent use; a notification
// that arrives while one is already pending is dropped.
func (l *RefreshListener) Notify() {
	select {
	case l.pending <- struct{}{}:
	default:
	}
}

// Run refreshes whenever a notification is pending, until ctx is done.
// The refresh reads ledger state as of when it runs, so changes made after
// a coalesced notification are still picked up.
func (l *RefreshListener) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.pending:
			if err := l.refresher.Refresh(ctx); err != nil && ctx.Err() == nil {
				l.logger.Warn("ledger refresh failed", zap.Error(err))
			}
		}
	}
}
