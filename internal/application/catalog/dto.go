package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/serial"
)

// CreateProductRequest creates a catalog entry. DeviceIDs empty means a
// bulk product tracked by PurchaseQty; non-empty means a serialized product
// whose quantity is derived from the identifier list.
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	// Bulk fields
	PurchaseQty int    `json:"purchase_qty,omitempty"`
	GenericCode string `json:"generic_code,omitempty"`
	Size        string `json:"size,omitempty"`
	// Serialized fields, delimited as entered
	DeviceIDs   string `json:"device_ids,omitempty"`
	DeviceSizes string `json:"device_sizes,omitempty"`
	Delimiter   string `json:"delimiter,omitempty"`
}

// RestockRequest increases a bulk product's quantity
type RestockRequest struct {
	Delta int `json:"delta" binding:"required,min=1"`
}

// AppendUnitsRequest appends serialized units to a product
type AppendUnitsRequest struct {
	DeviceIDs   string `json:"device_ids" binding:"required"`
	DeviceSizes string `json:"device_sizes,omitempty"`
	Delimiter   string `json:"delimiter,omitempty"`
}

// UpdateProductRequest edits the descriptive fields of a product
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description,omitempty"`
	Supplier    string `json:"supplier,omitempty"`
}

// CheckDeviceIDRequest validates one candidate identifier against the
// store's catalog and sales history plus the identifiers already present
// in the caller's form.
type CheckDeviceIDRequest struct {
	Candidate   string   `json:"candidate" binding:"required"`
	InFormUnits []string `json:"in_form_units,omitempty"`
}

// CheckDeviceIDResponse reports the outcome of a duplicate check
type CheckDeviceIDResponse struct {
	Duplicate   bool   `json:"duplicate"`
	Source      string `json:"source,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// InventoryResponse is the API view of a product's running counter
type InventoryResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	AvailableQty int       `json:"available_qty"`
	QuantitySold int       `json:"quantity_sold"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListFilter filters product listings
type ProductListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Kind     string
}

// ProductResponse is the API view of a catalog entry
type ProductResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Supplier      string                `json:"supplier,omitempty"`
	PurchasePrice decimal.Decimal       `json:"purchase_price"`
	SellingPrice  decimal.Decimal       `json:"selling_price"`
	Kind          catalog.VariantKind   `json:"kind"`
	Quantity      int                   `json:"quantity"`
	GenericCode   string                `json:"generic_code,omitempty"`
	Size          string                `json:"size,omitempty"`
	Units         []serial.UnitIdentity `json:"units,omitempty"`
	Version       int                   `json:"version"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its response form
func ToProductResponse(product *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Supplier:      product.Supplier,
		PurchasePrice: product.PurchasePrice,
		SellingPrice:  product.SellingPrice,
		Kind:          product.Kind,
		Quantity:      product.QuantityOnHand(),
		Units:         product.Units,
		Version:       product.GetVersion(),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Bulk != nil {
		resp.GenericCode = product.Bulk.GenericCode
		resp.Size = product.Bulk.Size
	}
	return resp
}
