package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormReturnRepository implements returns.ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return entry by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnRecord, error) {
	var record returns.ReturnRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("return.find", err)
	}
	return &record, nil
}

// FindByIDForStore finds a return entry by ID within a store
func (r *GormReturnRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*returns.ReturnRecord, error) {
	var record returns.ReturnRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("return.find", err)
	}
	return &record, nil
}

// FindAllForStore finds all return entries for a store
func (r *GormReturnRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]returns.ReturnRecord, error) {
	var records []returns.ReturnRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&returns.ReturnRecord{}).Where("store_id = ?", storeID), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, shared.NewBackingStoreError("return.list", err)
	}
	return records, nil
}

// FindAllByStore loads every return entry of a store without pagination
func (r *GormReturnRepository) FindAllByStore(ctx context.Context, storeID uuid.UUID) ([]returns.ReturnRecord, error) {
	var records []returns.ReturnRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, shared.NewBackingStoreError("return.list", err)
	}
	return records, nil
}

// FindByReceipt finds all return entries referencing a receipt
func (r *GormReturnRepository) FindByReceipt(ctx context.Context, storeID, receiptID uuid.UUID) ([]returns.ReturnRecord, error) {
	var records []returns.ReturnRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND receipt_id = ?", storeID, receiptID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, shared.NewBackingStoreError("return.list", err)
	}
	return records, nil
}

// FindActiveForUnit finds the non-rejected entries for one sold unit
func (r *GormReturnRepository) FindActiveForUnit(ctx context.Context, storeID, receiptID uuid.UUID, canonicalDeviceID string) ([]returns.ReturnRecord, error) {
	var records []returns.ReturnRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND receipt_id = ? AND LOWER(device_id) = ? AND status != ?",
			storeID, receiptID, canonicalDeviceID, returns.ReturnStatusRejected).
		Find(&records).Error; err != nil {
		return nil, shared.NewBackingStoreError("return.list", err)
	}
	return records, nil
}

// Save creates or updates a return entry
func (r *GormReturnRepository) Save(ctx context.Context, record *returns.ReturnRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return shared.NewBackingStoreError("return.save", err)
	}
	return nil
}

// SaveBatch persists multiple return entries. The batch is not
// transactional; the first failure is returned and earlier entries stay.
func (r *GormReturnRepository) SaveBatch(ctx context.Context, records []*returns.ReturnRecord) error {
	for _, record := range records {
		if err := r.Save(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a return entry
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&returns.ReturnRecord{}, "id = ?", id)
	if result.Error != nil {
		return shared.NewBackingStoreError("return.delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteBatch deletes multiple return entries for a store
func (r *GormReturnRepository) DeleteBatch(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Delete(&returns.ReturnRecord{}, "store_id = ? AND id IN ?", storeID, ids)
	if result.Error != nil {
		return 0, shared.NewBackingStoreError("return.delete", result.Error)
	}
	return result.RowsAffected, nil
}

// CountForStore counts return entries for a store
func (r *GormReturnRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&returns.ReturnRecord{}).Where("store_id = ?", storeID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, shared.NewBackingStoreError("return.count", err)
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ReturnSortFields, "returned_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("returned_date DESC, created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("product_name LIKE ? OR device_id LIKE ? OR reason_remark LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "receipt_id":
			query = query.Where("receipt_id = ?", value)
		}
	}

	return query
}

// Ensure GormReturnRepository implements ReturnRepository
var _ returns.ReturnRepository = (*GormReturnRepository)(nil)
