package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// DealershipRepository defines the interface for dealership persistence
type DealershipRepository interface {
	// Create creates a new dealership
	Create(ctx context.Context, dealership *Dealership) error

	// Update updates an existing dealership
	Update(ctx context.Context, dealership *Dealership) error

	// FindByID finds a dealership by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Dealership, error)

	// FindByCode finds a dealership by its short code
	FindByCode(ctx context.Context, code string) (*Dealership, error)

	// FindAll returns all dealerships
	FindAll(ctx context.Context) ([]*Dealership, error)
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, membership *Membership) error

	// Update updates an existing membership
	Update(ctx context.Context, membership *Membership) error

	// FindByUserAndDealership finds the membership a user holds in a dealership
	FindByUserAndDealership(ctx context.Context, userID, dealershipID uuid.UUID) (*Membership, error)

	// FindByUser returns all memberships for a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Membership, error)

	// FindByDealership returns all memberships of a dealership
	FindByDealership(ctx context.Context, dealershipID uuid.UUID) ([]*Membership, error)
}
