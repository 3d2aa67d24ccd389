package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// Counter tracks the running availability of one product. It is mutated by
// restocks and sales. Returns deliberately leave it untouched: a returned
// unit does not restock automatically.
type Counter struct {
	ProductID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index"`
	AvailableQty int       `gorm:"not null;default:0"`
	QuantitySold int       `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (Counter) TableName() string {
	return "inventory_counters"
}

// Restock increases the available quantity
func (c *Counter) Restock(delta int) error {
	if delta < 0 {
		return shared.ErrNegativeQuantity
	}
	c.AvailableQty += delta
	c.UpdatedAt = time.Now()
	return nil
}

// RecordSale moves quantity from available to sold
func (c *Counter) RecordSale(qty int) error {
	if qty < 0 {
		return shared.ErrNegativeQuantity
	}
	c.AvailableQty -= qty
	c.QuantitySold += qty
	c.UpdatedAt = time.Now()
	return nil
}

// CounterRepository defines the interface for counter persistence
type CounterRepository interface {
	// FindByProduct finds the counter for a product, creating a zeroed one
	// if none exists yet
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID) (*Counter, error)

	// Save creates or updates a counter
	Save(ctx context.Context, counter *Counter) error

	// Delete removes the counter of a deleted product
	Delete(ctx context.Context, productID uuid.UUID) error
}
