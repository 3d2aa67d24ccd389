package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/returns"
)

// ReturnUnitRequest selects one located unit for return. The server
// re-derives pricing and receipt linkage from the sale row rather than
// trusting the caller.
type ReturnUnitRequest struct {
	SaleID   uuid.UUID `json:"sale_id" binding:"required"`
	DeviceID string    `json:"device_id,omitempty"`
	Quantity int       `json:"quantity,omitempty"`
}

// CreateReturnsRequest creates one return entry per selected unit
type CreateReturnsRequest struct {
	Units        []ReturnUnitRequest `json:"units" binding:"required,min=1"`
	ReasonRemark string              `json:"reason_remark,omitempty"`
	ReturnedDate time.Time           `json:"returned_date,omitempty"`
}

// UpdateReturnRequest edits the mutable fields of a return entry
type UpdateReturnRequest struct {
	Status       returns.ReturnStatus `json:"status,omitempty"`
	ReasonRemark *string              `json:"reason_remark,omitempty"`
	ReturnedDate time.Time            `json:"returned_date,omitempty"`
}

// DeleteReturnsRequest deletes return entries in batch
type DeleteReturnsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// ReturnResponse is the API view of a return entry
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReceiptID    uuid.UUID            `json:"receipt_id"`
	ProductName  string               `json:"product_name"`
	DeviceID     string               `json:"device_id,omitempty"`
	Quantity     int                  `json:"quantity"`
	Amount       decimal.Decimal      `json:"amount"`
	ReasonRemark string               `json:"reason_remark,omitempty"`
	Status       returns.ReturnStatus `json:"status"`
	ReturnedDate time.Time            `json:"returned_date"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToReturnResponse converts a return aggregate to its response form
func ToReturnResponse(record *returns.ReturnRecord) ReturnResponse {
	return ReturnResponse{
		ID:           record.ID,
		ReceiptID:    record.ReceiptID,
		ProductName:  record.ProductName,
		DeviceID:     record.DeviceID,
		Quantity:     record.Quantity,
		Amount:       record.Amount,
		ReasonRemark: record.ReasonRemark,
		Status:       record.Status,
		ReturnedDate: record.ReturnedDate,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// BatchResult reports a non-transactional batch outcome: entries already
// applied stay applied when later ones fail.
type BatchResult struct {
	Created []ReturnResponse `json:"created"`
	Failed  []BatchFailure   `json:"failed,omitempty"`
}

// BatchFailure describes one failed entry of a batch
type BatchFailure struct {
	SaleID   uuid.UUID `json:"sale_id"`
	DeviceID string    `json:"device_id,omitempty"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
}

// ReasonCount is one reason group of the stats summary
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// StatsResponse aggregates ledger state for display
type StatsResponse struct {
	TotalCount      int                          `json:"total_count"`
	TotalValue      decimal.Decimal              `json:"total_value"`
	AverageValue    decimal.Decimal              `json:"average_value"`
	TopReasons      []ReasonCount                `json:"top_reasons"`
	StatusBreakdown map[returns.ReturnStatus]int `json:"status_breakdown"`
}
