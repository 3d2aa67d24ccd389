package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// ReturnStatus represents the lifecycle state of a return entry
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
	ReturnStatusRefunded ReturnStatus = "refunded"
)

// allowedTransitions encodes the return status machine:
// pending moves to approved or rejected, approved moves to refunded.
// Rejected and refunded are terminal.
var allowedTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:  {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved: {ReturnStatusRefunded},
}

// ReturnRecord is the aggregate root of the returns ledger. It references
// the originating receipt, not the derived unit record, so the ledger stays
// valid even though unit records are never persisted.
//
// DeviceID, Quantity, Amount and ReceiptID are immutable after creation;
// only status, date and remark can be edited.
type ReturnRecord struct {
	shared.StoreAggregateRoot
	ReceiptID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_return_receipt_device"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	DeviceID     string          `gorm:"type:varchar(100);index:idx_return_receipt_device"`
	Quantity     int             `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReasonRemark string          `gorm:"type:text"`
	Status       ReturnStatus    `gorm:"type:varchar(20);not null;default:'pending'"`
	ReturnedDate time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnRecord) TableName() string {
	return "returns"
}

// NewReturnRecord creates a return entry for one located sale unit.
func NewReturnRecord(
	storeID, receiptID uuid.UUID,
	productName, deviceID string,
	quantity int,
	amount decimal.Decimal,
	reasonRemark string,
	returnedDate time.Time,
) (*ReturnRecord, error) {
	if productName == "" {
		return nil, shared.ErrEmptyName
	}
	if quantity <= 0 {
		return nil, shared.ErrNegativeQuantity
	}
	if returnedDate.IsZero() {
		returnedDate = time.Now()
	}

	record := &ReturnRecord{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		ReceiptID:          receiptID,
		ProductName:        productName,
		DeviceID:           deviceID,
		Quantity:           quantity,
		Amount:             amount,
		ReasonRemark:       reasonRemark,
		Status:             ReturnStatusPending,
		ReturnedDate:       returnedDate,
	}

	record.AddDomainEvent(NewReturnCreatedEvent(record))

	return record, nil
}

// ChangeStatus moves the record through the status machine.
func (r *ReturnRecord) ChangeStatus(next ReturnStatus) error {
	if next == r.Status {
		return nil
	}
	for _, allowed := range allowedTransitions[r.Status] {
		if next == allowed {
			old := r.Status
			r.Status = next
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			r.AddDomainEvent(NewReturnStatusChangedEvent(r, old))
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE",
		"Cannot change return status from "+string(r.Status)+" to "+string(next))
}

// UpdateDetails edits the mutable fields: remark and returned date.
func (r *ReturnRecord) UpdateDetails(reasonRemark string, returnedDate time.Time) {
	r.ReasonRemark = reasonRemark
	if !returnedDate.IsZero() {
		r.ReturnedDate = returnedDate
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnUpdatedEvent(r))
}

// MarkDeleted records the deletion event before the aggregate is removed
func (r *ReturnRecord) MarkDeleted() {
	r.AddDomainEvent(NewReturnDeletedEvent(r))
}

// IsActive reports whether the record still counts against the returned
// quantity of its unit. Rejected returns free the unit for another attempt.
func (r *ReturnRecord) IsActive() bool {
	return r.Status != ReturnStatusRejected
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s ReturnStatus) bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusRefunded:
		return true
	}
	return false
}
