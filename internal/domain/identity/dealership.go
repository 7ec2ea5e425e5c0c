package identity

import (
	"strings"
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
)

// Dealership represents a single rooftop (store). All CRM data is scoped to
// exactly one dealership.
type Dealership struct {
	shared.BaseAggregateRoot
	Name     string
	Code     string // Short unique code used in exports and integrations
	Timezone string
	Address  string
	Phone    string
	Active   bool
}

// NewDealership creates a new active dealership
func NewDealership(name, code string) (*Dealership, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Dealership name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Dealership name cannot exceed 200 characters")
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Dealership code cannot be empty")
	}

	dealership := &Dealership{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Timezone:          "America/New_York",
		Active:            true,
	}

	dealership.AddDomainEvent(NewDealershipCreatedEvent(dealership))

	return dealership, nil
}

// SetTimezone sets the dealership's IANA timezone name
func (d *Dealership) SetTimezone(tz string) error {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return shared.NewDomainError("INVALID_TIMEZONE", "Timezone cannot be empty")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone: "+tz)
	}

	d.Timezone = tz
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetContact sets the dealership's address and phone
func (d *Dealership) SetContact(address, phone string) {
	d.Address = strings.TrimSpace(address)
	d.Phone = strings.TrimSpace(phone)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Deactivate disables the dealership. Requests scoped to an inactive
// dealership are rejected by the resolution guard.
func (d *Dealership) Deactivate() error {
	if !d.Active {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Dealership is already deactivated")
	}

	d.Active = false
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// Reactivate re-enables the dealership
func (d *Dealership) Reactivate() error {
	if d.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Dealership is already active")
	}

	d.Active = true
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}
