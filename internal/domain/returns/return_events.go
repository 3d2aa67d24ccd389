package returns

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReturn = "ReturnRecord"

// Event type constants
const (
	EventTypeReturnCreated       = "ReturnCreated"
	EventTypeReturnUpdated       = "ReturnUpdated"
	EventTypeReturnStatusChanged = "ReturnStatusChanged"
	EventTypeReturnDeleted       = "ReturnDeleted"
)

// ReturnCreatedEvent is published when a return entry is created
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID  uuid.UUID       `json:"return_id"`
	ReceiptID uuid.UUID       `json:"receipt_id"`
	DeviceID  string          `json:"device_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(record *ReturnRecord) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturn, record.ID, record.StoreID),
		ReturnID:        record.ID,
		ReceiptID:       record.ReceiptID,
		DeviceID:        record.DeviceID,
		Quantity:        record.Quantity,
		Amount:          record.Amount,
	}
}

// ReturnUpdatedEvent is published when a return entry's details change
type ReturnUpdatedEvent struct {
	shared.BaseDomainEvent
	ReturnID uuid.UUID    `json:"return_id"`
	Status   ReturnStatus `json:"status"`
}

// NewReturnUpdatedEvent creates a new ReturnUpdatedEvent
func NewReturnUpdatedEvent(record *ReturnRecord) *ReturnUpdatedEvent {
	return &ReturnUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnUpdated, AggregateTypeReturn, record.ID, record.StoreID),
		ReturnID:        record.ID,
		Status:          record.Status,
	}
}

// ReturnStatusChangedEvent is published when a return moves through the status machine
type ReturnStatusChangedEvent struct {
	shared.BaseDomainEvent
	ReturnID  uuid.UUID    `json:"return_id"`
	OldStatus ReturnStatus `json:"old_status"`
	NewStatus ReturnStatus `json:"new_status"`
}

// NewReturnStatusChangedEvent creates a new ReturnStatusChangedEvent
func NewReturnStatusChangedEvent(record *ReturnRecord, oldStatus ReturnStatus) *ReturnStatusChangedEvent {
	return &ReturnStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnStatusChanged, AggregateTypeReturn, record.ID, record.StoreID),
		ReturnID:        record.ID,
		OldStatus:       oldStatus,
		NewStatus:       record.Status,
	}
}

// ReturnDeletedEvent is published when a return entry is deleted
type ReturnDeletedEvent struct {
	shared.BaseDomainEvent
	ReturnID  uuid.UUID `json:"return_id"`
	ReceiptID uuid.UUID `json:"receipt_id"`
	DeviceID  string    `json:"device_id,omitempty"`
}

// NewReturnDeletedEvent creates a new ReturnDeletedEvent
func NewReturnDeletedEvent(record *ReturnRecord) *ReturnDeletedEvent {
	return &ReturnDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnDeleted, AggregateTypeReturn, record.ID, record.StoreID),
		ReturnID:        record.ID,
		ReceiptID:       record.ReceiptID,
		DeviceID:        record.DeviceID,
	}
}
