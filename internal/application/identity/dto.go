package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/domain/identity"
)

// LoginInput contains credentials for a login attempt
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshTokenInput contains the refresh token to rotate
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult is returned after a successful token rotation
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput identifies the session being ended
type LogoutInput struct {
	UserID      uuid.UUID
	AccessToken string
}

// ChangePasswordInput contains a password change request
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UserInfo is the user representation handed to the interface layer
type UserInfo struct {
	ID               uuid.UUID        `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	PlatformAdmin    bool             `json:"platform_admin"`
	PlatformOperator bool             `json:"platform_operator"`
	Memberships      []MembershipInfo `json:"memberships"`
}

// MembershipInfo is one dealership grant on a user
type MembershipInfo struct {
	DealershipID uuid.UUID     `json:"dealership_id"`
	Role         identity.Role `json:"role"`
	Active       bool          `json:"active"`
}

// RegisterUserInput contains a new user registration
type RegisterUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// GrantMembershipInput grants a user a role in a dealership
type GrantMembershipInput struct {
	UserID       uuid.UUID
	DealershipID uuid.UUID
	Role         identity.Role
}

// CreateDealershipInput contains a new dealership
type CreateDealershipInput struct {
	Name     string
	Code     string
	Timezone string
	Address  string
	Phone    string
}

// userInfoFrom builds a UserInfo from domain objects
func userInfoFrom(user *identity.User, memberships []*identity.Membership) UserInfo {
	infos := make([]MembershipInfo, 0, len(memberships))
	for _, m := range memberships {
		infos = append(infos, MembershipInfo{
			DealershipID: m.DealershipID,
			Role:         m.Role,
			Active:       m.Active,
		})
	}
	return UserInfo{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		PlatformAdmin:    user.PlatformAdmin,
		PlatformOperator: user.PlatformOperator,
		Memberships:      infos,
	}
}
