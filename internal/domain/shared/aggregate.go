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

// AddDomainEvent records a domain event to be published after persistence
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

// DealershipAggregateRoot extends BaseAggregateRoot with per-dealership scoping.
// Every row created through it carries the owning dealership, which repositories
// use as a mandatory filter.
type DealershipAggregateRoot struct {
	BaseAggregateRoot
	DealershipID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid;index"`
}

// NewDealershipAggregateRoot creates a new dealership-scoped aggregate root
func NewDealershipAggregateRoot(dealershipID uuid.UUID) DealershipAggregateRoot {
	return DealershipAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		DealershipID:      dealershipID,
	}
}

// NewDealershipAggregateRootWithCreator creates a new dealership-scoped aggregate root with creator info
func NewDealershipAggregateRootWithCreator(dealershipID, createdBy uuid.UUID) DealershipAggregateRoot {
	return DealershipAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		DealershipID:      dealershipID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (d *DealershipAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	d.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (d *DealershipAggregateRoot) GetCreatedBy() *uuid.UUID {
	return d.CreatedBy
}
