package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/domain/identity"
)

// UserModel is the persistence model for platform users
type UserModel struct {
	AggregateModel
	Email            string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     string `gorm:"type:varchar(255);not null"`
	FirstName        string `gorm:"type:varchar(100)"`
	LastName         string `gorm:"type:varchar(100)"`
	Status           string `gorm:"type:varchar(20);not null;default:'active'"`
	PlatformAdmin    bool   `gorm:"not null;default:false"`
	PlatformOperator bool   `gorm:"not null;default:false"`
	RefreshTokenHash string `gorm:"type:varchar(64)"`
	LastLoginAt      *time.Time
	LastLoginIP      string `gorm:"type:varchar(45)"`
	FailedAttempts   int    `gorm:"not null;default:0"`
	LockedUntil      *time.Time
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to a domain User
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Status:           identity.UserStatus(m.Status),
		PlatformAdmin:    m.PlatformAdmin,
		PlatformOperator: m.PlatformOperator,
		RefreshTokenHash: m.RefreshTokenHash,
		LastLoginAt:      m.LastLoginAt,
		LastLoginIP:      m.LastLoginIP,
		FailedAttempts:   m.FailedAttempts,
		LockedUntil:      m.LockedUntil,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// UserModelFromDomain converts a domain User to UserModel
func UserModelFromDomain(user *identity.User) *UserModel {
	model := &UserModel{
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Status:           string(user.Status),
		PlatformAdmin:    user.PlatformAdmin,
		PlatformOperator: user.PlatformOperator,
		RefreshTokenHash: user.RefreshTokenHash,
		LastLoginAt:      user.LastLoginAt,
		LastLoginIP:      user.LastLoginIP,
		FailedAttempts:   user.FailedAttempts,
		LockedUntil:      user.LockedUntil,
	}
	model.FromDomainAggregateRoot(user.BaseAggregateRoot)
	return model
}

// DealershipModel is the persistence model for dealerships
type DealershipModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Timezone string `gorm:"type:varchar(64);not null;default:'America/New_York'"`
	Address  string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(30)"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for DealershipModel
func (DealershipModel) TableName() string {
	return "dealerships"
}

// ToDomain converts DealershipModel to a domain Dealership
func (m *DealershipModel) ToDomain() *identity.Dealership {
	dealership := &identity.Dealership{
		Name:     m.Name,
		Code:     m.Code,
		Timezone: m.Timezone,
		Address:  m.Address,
		Phone:    m.Phone,
		Active:   m.Active,
	}
	m.PopulateAggregateRoot(&dealership.BaseAggregateRoot)
	return dealership
}

// DealershipModelFromDomain converts a domain Dealership to DealershipModel
func DealershipModelFromDomain(dealership *identity.Dealership) *DealershipModel {
	model := &DealershipModel{
		Name:     dealership.Name,
		Code:     dealership.Code,
		Timezone: dealership.Timezone,
		Address:  dealership.Address,
		Phone:    dealership.Phone,
		Active:   dealership.Active,
	}
	model.FromDomainAggregateRoot(dealership.BaseAggregateRoot)
	return model
}

// MembershipModel is the persistence model for dealership memberships
type MembershipModel struct {
	AggregateModel
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_dealership"`
	DealershipID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_dealership"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Active       bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for MembershipModel
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts MembershipModel to a domain Membership
func (m *MembershipModel) ToDomain() *identity.Membership {
	membership := &identity.Membership{
		UserID:       m.UserID,
		DealershipID: m.DealershipID,
		Role:         identity.Role(m.Role),
		Active:       m.Active,
	}
	m.PopulateAggregateRoot(&membership.BaseAggregateRoot)
	return membership
}

// MembershipModelFromDomain converts a domain Membership to MembershipModel
func MembershipModelFromDomain(membership *identity.Membership) *MembershipModel {
	model := &MembershipModel{
		UserID:       membership.UserID,
		DealershipID: membership.DealershipID,
		Role:         string(membership.Role),
		Active:       membership.Active,
	}
	model.FromDomainAggregateRoot(membership.BaseAggregateRoot)
	return model
}
