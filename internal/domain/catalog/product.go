package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

// VariantKind discriminates the two product shapes. A product is either
// tracked by aggregate quantity (bulk) or by per-unit identifiers
// (serialized). The two field sets are mutually exclusive.
type VariantKind string

const (
	VariantBulk       VariantKind = "bulk"
	VariantSerialized VariantKind = "serialized"
)

// BulkVariant holds the fields that only exist for quantity-tracked products.
type BulkVariant struct {
	Quantity    int    `json:"quantity"`
	GenericCode string `json:"generic_code,omitempty"`
	Size        string `json:"size,omitempty"`
}

// Product is the aggregate root for catalog entries.
//
// For serialized products the on-hand quantity is always derived from the
// unit list and never stored independently.
type Product struct {
	shared.StoreAggregateRoot
	Name          string                `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_store_name,priority:2"`
	Description   string                `gorm:"type:text"`
	Supplier      string                `gorm:"type:varchar(200)"`
	PurchasePrice decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Kind          VariantKind           `gorm:"type:varchar(20);not null"`
	Bulk          *BulkVariant          `gorm:"-"`
	Units         []serial.UnitIdentity `gorm:"-"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewBulkProduct creates a quantity-tracked product.
func NewBulkProduct(storeID uuid.UUID, name string, quantity int, genericCode, size string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, shared.ErrNegativeQuantity
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Kind:               VariantBulk,
		PurchasePrice:      decimal.Zero,
		SellingPrice:       decimal.Zero,
		Bulk: &BulkVariant{
			Quantity:    quantity,
			GenericCode: genericCode,
			Size:        size,
		},
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewSerializedProduct creates a per-unit-tracked product. Every identifier
// in units must be unique within the list; cross-catalog uniqueness is
// checked by the caller against a catalog snapshot and enforced finally by
// the storage layer's constraint.
func NewSerializedProduct(storeID uuid.UUID, name string, units []serial.UnitIdentity) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	ids := deviceIDs(units)
	if conflicts := serial.CheckAll(ids, serial.CheckScope{}); len(conflicts) > 0 {
		return nil, duplicateError(conflicts[0])
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Kind:               VariantSerialized,
		PurchasePrice:      decimal.Zero,
		SellingPrice:       decimal.Zero,
		Units:              units,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, supplier string) error {
	if err := validateName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Supplier = supplier
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrices sets both purchase and selling prices
func (p *Product) SetPrices(purchasePrice, sellingPrice decimal.Decimal) error {
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.PurchasePrice = purchasePrice
	p.SellingPrice = sellingPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RestockBulk increases the on-hand quantity of a bulk product.
// Negative adjustment flows are handled elsewhere.
func (p *Product) RestockBulk(delta int) error {
	if p.Kind != VariantBulk {
		return shared.NewDomainError("INVALID_VARIANT", "Only bulk products can be restocked by quantity")
	}
	if delta < 0 {
		return shared.ErrNegativeQuantity
	}

	p.Bulk.Quantity += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductRestockedEvent(p, delta))

	return nil
}

// AppendSerialUnits appends new units to a serialized product. Existing
// units are immutable; new units are concatenated in order. catalogUnits is
// the caller's snapshot of identifiers registered on other products, keyed
// by canonical form.
func (p *Product) AppendSerialUnits(newUnits []serial.UnitIdentity, catalogUnits map[string]string) error {
	if p.Kind != VariantSerialized {
		return shared.NewDomainError("INVALID_VARIANT", "Only serialized products carry per-unit identifiers")
	}

	scope := serial.CheckScope{
		InFormUnits:  deviceIDs(p.Units),
		CatalogUnits: catalogUnits,
	}
	if conflicts := serial.CheckAll(deviceIDs(newUnits), scope); len(conflicts) > 0 {
		return duplicateError(conflicts[0])
	}

	p.Units = append(p.Units, newUnits...)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewSerialUnitsAddedEvent(p, newUnits))

	return nil
}

// MarkDeleted records the deletion event before the aggregate is removed
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// QuantityOnHand returns the trackable quantity: the stored count for bulk
// products, the unit-list length for serialized ones.
func (p *Product) QuantityOnHand() int {
	if p.Kind == VariantSerialized {
		return len(p.Units)
	}
	if p.Bulk == nil {
		return 0
	}
	return p.Bulk.Quantity
}

// IsSerialized returns true for per-unit-tracked products
func (p *Product) IsSerialized() bool {
	return p.Kind == VariantSerialized
}

// HasDeviceID reports whether the product carries the identifier,
// compared canonically.
func (p *Product) HasDeviceID(deviceID string) bool {
	canonical := serial.Canonical(deviceID)
	for _, u := range p.Units {
		if serial.Canonical(u.DeviceID) == canonical {
			return true
		}
	}
	return false
}

func deviceIDs(units []serial.UnitIdentity) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.DeviceID
	}
	return ids
}

func duplicateError(c serial.Conflict) error {
	msg := "Identifier " + c.DeviceID + " is already registered"
	if c.ProductName != "" {
		msg += " on product " + c.ProductName
	}
	return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, msg)
}

// validateName validates the product name
func validateName(name string) error {
	if name == "" {
		return shared.ErrEmptyName
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
