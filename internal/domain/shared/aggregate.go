package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// StoreAggregateRoot extends BaseAggregateRoot with store scoping.
// Every record in the back office belongs to exactly one store.
type StoreAggregateRoot struct {
	BaseAggregateRoot
	StoreID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // Session user who created this record
}

// NewStoreAggregateRoot creates a new store-scoped aggregate root
func NewStoreAggregateRoot(storeID uuid.UUID) StoreAggregateRoot {
	return StoreAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		StoreID:           storeID,
	}
}

// NewStoreAggregateRootWithCreator creates a new store-scoped aggregate root with creator info
func NewStoreAggregateRootWithCreator(storeID, createdBy uuid.UUID) StoreAggregateRoot {
	return StoreAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		StoreID:           storeID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (s *StoreAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	s.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (s *StoreAggregateRoot) GetCreatedBy() *uuid.UUID {
	return s.CreatedBy
}
