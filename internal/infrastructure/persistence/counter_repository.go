package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/inventory"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormCounterRepository implements inventory.CounterRepository using GORM
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// FindByProduct loads the counter for a product, creating a zeroed one when
// none exists yet.
func (r *GormCounterRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.Counter, error) {
	var counter inventory.Counter
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&counter).Error
	if err == nil {
		return &counter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewBackingStoreError("counter.find", err)
	}
	return &inventory.Counter{
		ProductID: productID,
		StoreID:   storeID,
		UpdatedAt: time.Now(),
	}, nil
}

// Save creates or updates a counter
func (r *GormCounterRepository) Save(ctx context.Context, counter *inventory.Counter) error {
	if err := r.db.WithContext(ctx).Save(counter).Error; err != nil {
		return shared.NewBackingStoreError("counter.save", err)
	}
	return nil
}

// Delete removes the counter of a deleted product
func (r *GormCounterRepository) Delete(ctx context.Context, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&inventory.Counter{}, "product_id = ?", productID)
	if result.Error != nil {
		return shared.NewBackingStoreError("counter.delete", result.Error)
	}
	return nil
}

// Ensure GormCounterRepository implements CounterRepository
var _ inventory.CounterRepository = (*GormCounterRepository)(nil)
