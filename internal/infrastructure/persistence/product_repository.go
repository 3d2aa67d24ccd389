package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

// columnDelimiter separates identifiers inside the serialized columns.
const columnDelimiter = ','

// productRow is the storage shape of a product. Both variants share one
// table; the variant-specific columns of the other kind stay at their zero
// values.
type productRow struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_store_name,priority:1"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid;index"`
	Name            string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_store_name,priority:2"`
	Description     string          `gorm:"type:text"`
	Supplier        string          `gorm:"type:varchar(200)"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Kind            string          `gorm:"type:varchar(20);not null"`
	Quantity        int             `gorm:"not null;default:0"`
	GenericCode     string          `gorm:"type:varchar(100)"`
	BulkSize        string          `gorm:"type:varchar(50)"`
	SerializedIDs   string          `gorm:"type:text"`
	SerializedSizes string          `gorm:"type:text"`
	Version         int             `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (productRow) TableName() string {
	return "products"
}

// deviceRegistration is one row of the identifier registry. The composite
// primary key (store_id, canonical_id) is the uniqueness arbiter between
// concurrent sessions.
type deviceRegistration struct {
	StoreID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CanonicalID string    `gorm:"type:varchar(100);primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (deviceRegistration) TableName() string {
	return "catalog_device_ids"
}

func toProductRow(product *catalog.Product) *productRow {
	row := &productRow{
		ID:            product.ID,
		StoreID:       product.StoreID,
		CreatedBy:     product.CreatedBy,
		Name:          product.Name,
		Description:   product.Description,
		Supplier:      product.Supplier,
		PurchasePrice: product.PurchasePrice,
		SellingPrice:  product.SellingPrice,
		Kind:          string(product.Kind),
		Version:       product.Version,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Bulk != nil {
		row.Quantity = product.Bulk.Quantity
		row.GenericCode = product.Bulk.GenericCode
		row.BulkSize = product.Bulk.Size
	}
	if len(product.Units) > 0 {
		ids := make([]string, len(product.Units))
		sizes := make([]string, len(product.Units))
		for i, unit := range product.Units {
			ids[i] = unit.DeviceID
			sizes[i] = unit.Size
		}
		row.SerializedIDs = encodeDelimited(ids, columnDelimiter)
		row.SerializedSizes = encodeDelimited(sizes, columnDelimiter)
	}
	return row
}

func fromProductRow(row *productRow) *catalog.Product {
	product := &catalog.Product{
		StoreAggregateRoot: shared.StoreAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        row.ID,
					CreatedAt: row.CreatedAt,
					UpdatedAt: row.UpdatedAt,
				},
				Version: row.Version,
			},
			StoreID:   row.StoreID,
			CreatedBy: row.CreatedBy,
		},
		Name:          row.Name,
		Description:   row.Description,
		Supplier:      row.Supplier,
		PurchasePrice: row.PurchasePrice,
		SellingPrice:  row.SellingPrice,
		Kind:          catalog.VariantKind(row.Kind),
	}
	if product.Kind == catalog.VariantSerialized {
		ids := decodeDelimited(row.SerializedIDs, columnDelimiter)
		sizes := decodeDelimited(row.SerializedSizes, columnDelimiter)
		units := make([]serial.UnitIdentity, len(ids))
		for i, id := range ids {
			units[i].DeviceID = id
			if i < len(sizes) {
				units[i].Size = sizes[i]
			}
		}
		product.Units = units
	} else {
		product.Bulk = &catalog.BulkVariant{
			Quantity:    row.Quantity,
			GenericCode: row.GenericCode,
			Size:        row.BulkSize,
		}
	}
	return product
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("product.find", err)
	}
	return fromProductRow(&row), nil
}

// FindByIDForStore finds a product by ID within a store
func (r *GormProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("product.find", err)
	}
	return fromProductRow(&row), nil
}

// FindByName finds a product by its exact name within a store
func (r *GormProductRepository) FindByName(ctx context.Context, storeID uuid.UUID, name string) (*catalog.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND name = ?", storeID, name).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewBackingStoreError("product.find", err)
	}
	return fromProductRow(&row), nil
}

// FindAllForStore finds all products for a store
func (r *GormProductRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var rows []productRow
	query := r.applyFilter(r.db.WithContext(ctx).Model(&productRow{}).Where("store_id = ?", storeID), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, shared.NewBackingStoreError("product.list", err)
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *fromProductRow(&rows[i])
	}
	return products, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var rows []productRow
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Find(&rows).Error; err != nil {
		return nil, shared.NewBackingStoreError("product.list", err)
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *fromProductRow(&rows[i])
	}
	return products, nil
}

// Save creates or updates a product together with its device-id
// registrations. Row and registry are written in one transaction; the
// registry's composite primary key is the final uniqueness arbiter, and a
// violation surfaces as DUPLICATE_IDENTIFIER.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(toProductRow(product)).Error; err != nil {
			return err
		}

		if err := tx.Delete(&deviceRegistration{}, "product_id = ?", product.ID).Error; err != nil {
			return err
		}
		if len(product.Units) == 0 {
			return nil
		}

		registrations := make([]deviceRegistration, len(product.Units))
		for i, unit := range product.Units {
			registrations[i] = deviceRegistration{
				StoreID:     product.StoreID,
				CanonicalID: serial.Canonical(unit.DeviceID),
				ProductID:   product.ID,
				ProductName: product.Name,
			}
		}
		return tx.Create(&registrations).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicateIdentifier
		}
		return shared.NewBackingStoreError("product.save", err)
	}
	return nil
}

// Delete deletes a product and its device-id registrations
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&deviceRegistration{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&productRow{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return shared.NewBackingStoreError("product.delete", err)
	}
	return nil
}

// CountForStore counts products for a store
func (r *GormProductRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&productRow{}).Where("store_id = ?", storeID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, shared.NewBackingStoreError("product.count", err)
	}
	return count, nil
}

// ExistsByName checks if a product with the given name exists in the store
func (r *GormProductRepository) ExistsByName(ctx context.Context, storeID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&productRow{}).
		Where("store_id = ? AND name = ?", storeID, name).
		Count(&count).Error; err != nil {
		return false, shared.NewBackingStoreError("product.exists", err)
	}
	return count > 0, nil
}

// FindDeviceOwners resolves canonical device identifiers to the names of
// the products that currently carry them
func (r *GormProductRepository) FindDeviceOwners(ctx context.Context, storeID uuid.UUID, canonicalIDs []string) (map[string]string, error) {
	owners := make(map[string]string, len(canonicalIDs))
	if len(canonicalIDs) == 0 {
		return owners, nil
	}

	var registrations []deviceRegistration
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND canonical_id IN ?", storeID, canonicalIDs).
		Find(&registrations).Error; err != nil {
		return nil, shared.NewBackingStoreError("product.device_owners", err)
	}
	for _, registration := range registrations {
		owners[registration.CanonicalID] = registration.ProductName
	}
	return owners, nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR supplier LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "supplier":
			query = query.Where("supplier = ?", value)
		case "min_price":
			query = query.Where("selling_price >= ?", value)
		case "max_price":
			query = query.Where("selling_price <= ?", value)
		}
	}

	return query
}

// isUniqueViolation reports whether err is a uniqueness constraint failure,
// across the drivers we run against.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
