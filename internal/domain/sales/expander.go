package sales

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/serial"
)

// ProductSnapshot is the slice of catalog state the expander needs.
type ProductSnapshot struct {
	ID         uuid.UUID
	Name       string
	Serialized bool
}

// UnitSaleRecord is a derived view representing exactly one sold physical
// unit (or one bulk line). It is never persisted; it is materialized from a
// SaleRecord on demand and carries receipt metadata when the lookup path
// resolved it.
type UnitSaleRecord struct {
	CompositeID   string           `json:"composite_id"`
	SaleID        uuid.UUID        `json:"sale_id"`
	ReceiptID     uuid.UUID        `json:"receipt_id"`
	ReceiptCode   string           `json:"receipt_code"`
	CustomerName  string           `json:"customer_name,omitempty"`
	CustomerPhone string           `json:"customer_phone,omitempty"`
	ProductName   string           `json:"product_name"`
	DeviceID      string           `json:"device_id,omitempty"`
	Size          string           `json:"size,omitempty"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	// AmbiguousPricing is set when the per-unit amount could not be derived
	// because the sale row has no unit price and a zero quantity.
	AmbiguousPricing bool `json:"ambiguous_pricing,omitempty"`
}

// Expand materializes the per-unit view of one sale row. For a serialized
// product it fans out into one record per device identifier; for a bulk
// product it yields a single record with the original quantity and amount.
//
// The function is pure and idempotent: expanding the same row twice yields
// structurally equal output, ordered by token position.
func Expand(sale SaleRecord, product ProductSnapshot) []UnitSaleRecord {
	if !product.Serialized {
		return []UnitSaleRecord{{
			CompositeID: sale.ID.String(),
			SaleID:      sale.ID,
			ProductName: product.Name,
			Quantity:    sale.QuantitySold,
			UnitPrice:   sale.UnitPrice,
			Amount:      sale.TotalAmount,
		}}
	}

	tokens := serial.ParseDelimitedIDs(sale.DeviceIDField, serial.DefaultDelimiter)
	perUnit, ambiguous := PerUnitAmount(sale)

	units := make([]UnitSaleRecord, 0, len(tokens))
	for _, token := range tokens {
		units = append(units, UnitSaleRecord{
			CompositeID:      CompositeID(sale.ID, token),
			SaleID:           sale.ID,
			ProductName:      product.Name,
			DeviceID:         token,
			Quantity:         1,
			UnitPrice:        sale.UnitPrice,
			Amount:           perUnit,
			AmbiguousPricing: ambiguous,
		})
	}
	return units
}

// ExpandMatching is Expand restricted to tokens whose canonical form
// contains the query fragment. Device-id lookups use this to materialize
// only the units that matched instead of the whole sale row.
func ExpandMatching(sale SaleRecord, product ProductSnapshot, queryFragment string) []UnitSaleRecord {
	fragment := serial.Canonical(queryFragment)
	if fragment == "" {
		return nil
	}
	matched := make([]UnitSaleRecord, 0, 1)
	for _, unit := range Expand(sale, product) {
		if unit.DeviceID == "" {
			continue
		}
		if containsCanonical(unit.DeviceID, fragment) {
			matched = append(matched, unit)
		}
	}
	return matched
}

// PerUnitAmount derives the price of one unit from a sale row: the recorded
// unit price when present, otherwise the total divided by the quantity. A
// zero quantity with no unit price makes the price underivable; the amount
// is reported as 0 with the ambiguous flag set.
func PerUnitAmount(sale SaleRecord) (decimal.Decimal, bool) {
	if sale.UnitPrice != nil {
		return *sale.UnitPrice, false
	}
	if sale.QuantitySold == 0 {
		return decimal.Zero, true
	}
	return sale.TotalAmount.Div(decimal.NewFromInt(int64(sale.QuantitySold))), false
}

// CompositeID builds the stable identifier of a derived unit record.
func CompositeID(saleID uuid.UUID, deviceID string) string {
	if deviceID == "" {
		return saleID.String()
	}
	return fmt.Sprintf("%s:%s", saleID, serial.Canonical(deviceID))
}

func containsCanonical(deviceID, canonicalFragment string) bool {
	return strings.Contains(serial.Canonical(deviceID), canonicalFragment)
}
