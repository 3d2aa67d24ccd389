package catalog

import (
	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated   = "ProductCreated"
	EventTypeProductUpdated   = "ProductUpdated"
	EventTypeProductRestocked = "ProductRestocked"
	EventTypeSerialUnitsAdded = "SerialUnitsAdded"
	EventTypeProductDeleted   = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID   `json:"product_id"`
	Name      string      `json:"name"`
	Kind      VariantKind `json:"kind"`
	Quantity  int         `json:"quantity"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Name:            product.Name,
		Kind:            product.Kind,
		Quantity:        product.QuantityOnHand(),
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Name:            product.Name,
	}
}

// ProductRestockedEvent is published when a bulk product's quantity increases
type ProductRestockedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Delta       int       `json:"delta"`
	NewQuantity int       `json:"new_quantity"`
}

// NewProductRestockedEvent creates a new ProductRestockedEvent
func NewProductRestockedEvent(product *Product, delta int) *ProductRestockedEvent {
	return &ProductRestockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductRestocked, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Name:            product.Name,
		Delta:           delta,
		NewQuantity:     product.QuantityOnHand(),
	}
}

// SerialUnitsAddedEvent is published when units are appended to a serialized product
type SerialUnitsAddedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID             `json:"product_id"`
	Name      string                `json:"name"`
	Added     []serial.UnitIdentity `json:"added"`
	NewCount  int                   `json:"new_count"`
}

// NewSerialUnitsAddedEvent creates a new SerialUnitsAddedEvent
func NewSerialUnitsAddedEvent(product *Product, added []serial.UnitIdentity) *SerialUnitsAddedEvent {
	return &SerialUnitsAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSerialUnitsAdded, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Name:            product.Name,
		Added:           added,
		NewCount:        len(product.Units),
	}
}

// ProductDeletedEvent is published when a product is deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Name:            product.Name,
	}
}
