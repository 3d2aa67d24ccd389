package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecord is one row of the sales ledger. The ledger is written by the
// point-of-sale flow; this context only reads it. For serialized products
// DeviceIDField holds the delimited identifiers of every unit covered by
// the row, positionally ordered.
type SaleRecord struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	StoreID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	QuantitySold  int              `gorm:"not null"`
	UnitPrice     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	DeviceIDField string           `gorm:"type:text"`
	SaleGroupID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	PaymentMethod string           `gorm:"type:varchar(50)"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (SaleRecord) TableName() string {
	return "sales"
}

// Receipt groups the sale rows produced by one checkout transaction.
type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_store_code,priority:1"`
	SaleGroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ReceiptCode   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_receipt_store_code,priority:2"`
	CustomerName  string    `gorm:"type:varchar(200)"`
	CustomerPhone string    `gorm:"type:varchar(50)"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}
