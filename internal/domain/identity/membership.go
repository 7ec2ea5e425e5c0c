package identity

import (
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the role a user holds within one dealership
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleSales   Role = "SALES"
	RoleBDC     Role = "BDC"
)

// ParseRole validates and normalizes a role string
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleSales, RoleBDC:
		return Role(s), nil
	}
	return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+s)
}

// Membership grants a user a role within one dealership. A user has at most
// one membership per dealership.
type Membership struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID
	DealershipID uuid.UUID
	Role         Role
	Active       bool
}

// NewMembership creates a new active membership
func NewMembership(userID, dealershipID uuid.UUID, role Role) (*Membership, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if dealershipID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEALERSHIP_ID", "Dealership ID cannot be empty")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	m := &Membership{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		DealershipID:      dealershipID,
		Role:              role,
		Active:            true,
	}

	m.AddDomainEvent(NewMembershipGrantedEvent(m))

	return m, nil
}

// ChangeRole changes the role this membership grants
func (m *Membership) ChangeRole(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	if m.Role == role {
		return nil
	}

	old := m.Role
	m.Role = role
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewMembershipRoleChangedEvent(m, old, role))

	return nil
}

// Revoke deactivates the membership without deleting the row
func (m *Membership) Revoke() error {
	if !m.Active {
		return shared.NewDomainError("ALREADY_REVOKED", "Membership is already revoked")
	}

	m.Active = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewMembershipRevokedEvent(m))

	return nil
}

// Restore reactivates a revoked membership
func (m *Membership) Restore() error {
	if m.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Membership is already active")
	}

	m.Active = true
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}
