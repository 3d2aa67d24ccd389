package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormSaleRepository implements sales.SaleRepository using GORM. The sales
// ledger is written by the point-of-sale flow; this repository only reads.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale row by its ID within a store
func (r *GormSaleRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*sales.SaleRecord, error) {
	var record sales.SaleRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("sale.find", err)
	}
	return &record, nil
}

// FindByGroupID finds all sale rows of one checkout transaction, preserving
// original row order
func (r *GormSaleRepository) FindByGroupID(ctx context.Context, storeID, saleGroupID uuid.UUID) ([]sales.SaleRecord, error) {
	var records []sales.SaleRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sale_group_id = ?", storeID, saleGroupID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, shared.NewBackingStoreError("sale.list", err)
	}
	return records, nil
}

// FindByDeviceFragment finds sale rows whose delimited device field contains
// the fragment, matched case-insensitively. The caller re-filters per token.
func (r *GormSaleRepository) FindByDeviceFragment(ctx context.Context, storeID uuid.UUID, fragment string) ([]sales.SaleRecord, error) {
	fragment = serial.Canonical(fragment)
	if fragment == "" {
		return []sales.SaleRecord{}, nil
	}

	var records []sales.SaleRecord
	pattern := "%" + escapeLike(fragment) + "%"
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND device_id_field != '' AND LOWER(device_id_field) LIKE ?", storeID, pattern).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, shared.NewBackingStoreError("sale.search", err)
	}
	return records, nil
}

// SoldDeviceIDs returns the canonical identifiers of every unit sold in the
// store. Used to build duplicate-check snapshots.
func (r *GormSaleRepository) SoldDeviceIDs(ctx context.Context, storeID uuid.UUID) (map[string]struct{}, error) {
	var fields []string
	if err := r.db.WithContext(ctx).
		Model(&sales.SaleRecord{}).
		Where("store_id = ? AND device_id_field != ''", storeID).
		Pluck("device_id_field", &fields).Error; err != nil {
		return nil, shared.NewBackingStoreError("sale.sold_ids", err)
	}

	sold := make(map[string]struct{})
	for _, field := range fields {
		for _, token := range serial.ParseDelimitedIDs(field, serial.DefaultDelimiter) {
			sold[serial.Canonical(token)] = struct{}{}
		}
	}
	return sold, nil
}

// escapeLike escapes LIKE metacharacters in a user-supplied fragment.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)

// GormReceiptRepository implements sales.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID within a store
func (r *GormReceiptRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*sales.Receipt, error) {
	var receipt sales.Receipt
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("receipt.find", err)
	}
	return &receipt, nil
}

// FindByCode finds a receipt by its exact receipt code within a store
func (r *GormReceiptRepository) FindByCode(ctx context.Context, storeID uuid.UUID, receiptCode string) (*sales.Receipt, error) {
	var receipt sales.Receipt
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND receipt_code = ?", storeID, receiptCode).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("receipt.find", err)
	}
	return &receipt, nil
}

// FindByGroupID finds the receipt covering a sale group
func (r *GormReceiptRepository) FindByGroupID(ctx context.Context, storeID, saleGroupID uuid.UUID) (*sales.Receipt, error) {
	var receipt sales.Receipt
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sale_group_id = ?", storeID, saleGroupID).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("receipt.find", err)
	}
	return &receipt, nil
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ sales.ReceiptRepository = (*GormReceiptRepository)(nil)
