package sales

import (
	"context"

	"github.com/google/uuid"
)

// SaleRepository reads the externally-owned sales ledger.
type SaleRepository interface {
	// FindByID finds a sale row by its ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*SaleRecord, error)

	// FindByGroupID finds all sale rows of one checkout transaction,
	// preserving original row order
	FindByGroupID(ctx context.Context, storeID, saleGroupID uuid.UUID) ([]SaleRecord, error)

	// FindByDeviceFragment finds sale rows whose delimited device field
	// contains the fragment. Matching is canonical substring matching; the
	// caller re-filters per token.
	FindByDeviceFragment(ctx context.Context, storeID uuid.UUID, fragment string) ([]SaleRecord, error)

	// SoldDeviceIDs returns the canonical identifiers of every unit sold in
	// the store. Used to build duplicate-check snapshots.
	SoldDeviceIDs(ctx context.Context, storeID uuid.UUID) (map[string]struct{}, error)
}

// ReceiptRepository reads the externally-owned receipt collection.
type ReceiptRepository interface {
	// FindByID finds a receipt by its ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Receipt, error)

	// FindByCode finds a receipt by its exact receipt code within a store
	FindByCode(ctx context.Context, storeID uuid.UUID, receiptCode string) (*Receipt, error)

	// FindByGroupID finds the receipt covering a sale group
	FindByGroupID(ctx context.Context, storeID, saleGroupID uuid.UUID) (*Receipt, error)
}
