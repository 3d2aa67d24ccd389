package returns

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// ReturnRepository defines the interface for return ledger persistence
type ReturnRepository interface {
	// FindByID finds a return entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnRecord, error)

	// FindByIDForStore finds a return entry by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*ReturnRecord, error)

	// FindAllForStore finds all return entries for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]ReturnRecord, error)

	// FindAllByStore loads every return entry of a store without pagination,
	// ordered by creation time. Used by the stats summarizer.
	FindAllByStore(ctx context.Context, storeID uuid.UUID) ([]ReturnRecord, error)

	// FindByReceipt finds all return entries referencing a receipt
	FindByReceipt(ctx context.Context, storeID, receiptID uuid.UUID) ([]ReturnRecord, error)

	// FindActiveForUnit finds the non-rejected entries for one sold unit,
	// identified by receipt and canonical device ID. An empty deviceID
	// matches bulk-line returns of that receipt.
	FindActiveForUnit(ctx context.Context, storeID, receiptID uuid.UUID, canonicalDeviceID string) ([]ReturnRecord, error)

	// Save creates or updates a return entry
	Save(ctx context.Context, record *ReturnRecord) error

	// SaveBatch persists multiple return entries. The batch is not
	// transactional; the error reports which entries failed.
	SaveBatch(ctx context.Context, records []*ReturnRecord) error

	// Delete deletes a return entry
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteBatch deletes multiple return entries for a store
	DeleteBatch(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (int64, error)

	// CountForStore counts return entries for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
}
