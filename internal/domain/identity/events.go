package identity

import (
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeUser       = "User"
	AggregateTypeDealership = "Dealership"
	AggregateTypeMembership = "Membership"
)

// Identity domain event types
const (
	EventTypeUserCreated           = "UserCreated"
	EventTypeUserPasswordChanged   = "UserPasswordChanged"
	EventTypeUserStatusChanged     = "UserStatusChanged"
	EventTypeDealershipCreated     = "DealershipCreated"
	EventTypeMembershipGranted     = "MembershipGranted"
	EventTypeMembershipRevoked     = "MembershipRevoked"
	EventTypeMembershipRoleChanged = "MembershipRoleChanged"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, uuid.Nil),
		Email:           user.Email,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID, uuid.Nil),
		Email:           user.Email,
		ChangedAt:       time.Now(),
	}
}

// UserStatusChangedEvent is published when a user's status changes
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Email     string     `json:"email"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, user.ID, uuid.Nil),
		Email:           user.Email,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// DealershipCreatedEvent is published when a dealership is created
type DealershipCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Code string `json:"code"`
}

// NewDealershipCreatedEvent creates a new DealershipCreatedEvent
func NewDealershipCreatedEvent(d *Dealership) *DealershipCreatedEvent {
	return &DealershipCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealershipCreated, AggregateTypeDealership, d.ID, d.ID),
		Name:            d.Name,
		Code:            d.Code,
	}
}

// MembershipGrantedEvent is published when a user is granted access to a dealership
type MembershipGrantedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// NewMembershipGrantedEvent creates a new MembershipGrantedEvent
func NewMembershipGrantedEvent(m *Membership) *MembershipGrantedEvent {
	return &MembershipGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipGranted, AggregateTypeMembership, m.ID, m.DealershipID),
		UserID:          m.UserID,
		Role:            m.Role,
	}
}

// MembershipRevokedEvent is published when a membership is revoked
type MembershipRevokedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewMembershipRevokedEvent creates a new MembershipRevokedEvent
func NewMembershipRevokedEvent(m *Membership) *MembershipRevokedEvent {
	return &MembershipRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipRevoked, AggregateTypeMembership, m.ID, m.DealershipID),
		UserID:          m.UserID,
	}
}

// MembershipRoleChangedEvent is published when a membership's role changes
type MembershipRoleChangedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	OldRole Role      `json:"old_role"`
	NewRole Role      `json:"new_role"`
}

// NewMembershipRoleChangedEvent creates a new MembershipRoleChangedEvent
func NewMembershipRoleChangedEvent(m *Membership, oldRole, newRole Role) *MembershipRoleChangedEvent {
	return &MembershipRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipRoleChanged, AggregateTypeMembership, m.ID, m.DealershipID),
		UserID:          m.UserID,
		OldRole:         oldRole,
		NewRole:         newRole,
	}
}
