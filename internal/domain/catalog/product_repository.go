package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForStore finds a product by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)

	// FindByName finds a product by its exact name within a store
	FindByName(ctx context.Context, storeID uuid.UUID, name string) (*Product, error)

	// FindAllForStore finds all products for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product together with its device-id
	// registrations. The storage layer's uniqueness constraint on canonical
	// device IDs is the final arbiter between concurrent sessions; its
	// violation surfaces as a DUPLICATE_IDENTIFIER domain error.
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product and its device-id registrations
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForStore counts products for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByName checks if a product with the given name exists in the store
	ExistsByName(ctx context.Context, storeID uuid.UUID, name string) (bool, error)

	// FindDeviceOwners resolves canonical device identifiers to the names of
	// the products that currently carry them. Identifiers with no owner are
	// absent from the result.
	FindDeviceOwners(ctx context.Context, storeID uuid.UUID, canonicalIDs []string) (map[string]string, error)
}
