package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
)

// LedgerMetrics counts returns-ledger activity per store. It subscribes to
// the domain event bus so services stay metric-free.
type LedgerMetrics struct {
	created       metric.Int64Counter
	statusChanges metric.Int64Counter
	deleted       metric.Int64Counter
}

// NewLedgerMetrics creates the ledger instruments on a meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	created, err := meter.Int64Counter("returns.created",
		metric.WithDescription("Return entries created"),
		metric.WithUnit("{entry}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create returns.created counter: %w", err)
	}

	statusChanges, err := meter.Int64Counter("returns.status_changes",
		metric.WithDescription("Return status transitions"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create returns.status_changes counter: %w", err)
	}

	deleted, err := meter.Int64Counter("returns.deleted",
		metric.WithDescription("Return entries deleted"),
		metric.WithUnit("{entry}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create returns.deleted counter: %w", err)
	}

	return &LedgerMetrics{
		created:       created,
		statusChanges: statusChanges,
		deleted:       deleted,
	}, nil
}

// Handle implements shared.EventHandler
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	storeAttr := AttrStoreID.String(event.StoreID().String())

	switch e := event.(type) {
	case *returns.ReturnCreatedEvent:
		m.created.Add(ctx, 1, metric.WithAttributes(storeAttr))
	case *returns.ReturnStatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(storeAttr,
			AttrStatus.String(string(e.NewStatus))))
	case *returns.ReturnDeletedEvent:
		m.deleted.Add(ctx, 1, metric.WithAttributes(storeAttr))
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (m *LedgerMetrics) EventTypes() []string {
	return []string{
		returns.EventTypeReturnCreated,
		returns.EventTypeReturnStatusChanged,
		returns.EventTypeReturnDeleted,
	}
}

// Ensure LedgerMetrics implements EventHandler
var _ shared.EventHandler = (*LedgerMetrics)(nil)
