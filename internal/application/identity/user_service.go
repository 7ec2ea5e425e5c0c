package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// UserService handles user registration and membership administration
type UserService struct {
	userRepo       identity.UserRepository
	dealershipRepo identity.DealershipRepository
	membershipRepo identity.MembershipRepository
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	dealershipRepo identity.DealershipRepository,
	membershipRepo identity.MembershipRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		dealershipRepo: dealershipRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// RegisterUser creates a new user account
func (s *UserService) RegisterUser(ctx context.Context, input RegisterUserInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	info := userInfoFrom(user, nil)
	return &info, nil
}

// GrantMembership grants a user a role in a dealership. Granting to a user
// who already holds a revoked membership restores it with the new role.
func (s *UserService) GrantMembership(ctx context.Context, input GrantMembershipInput) (*MembershipInfo, error) {
	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if _, err := s.dealershipRepo.FindByID(ctx, input.DealershipID); err != nil {
		return nil, shared.NewDomainError("DEALERSHIP_NOT_FOUND", "Dealership not found")
	}

	existing, err := s.membershipRepo.FindByUserAndDealership(ctx, input.UserID, input.DealershipID)
	if err == nil {
		if existing.Active {
			return nil, shared.NewDomainError("MEMBERSHIP_EXISTS", "User already belongs to this dealership")
		}
		if err := existing.Restore(); err != nil {
			return nil, err
		}
		if err := existing.ChangeRole(input.Role); err != nil {
			return nil, err
		}
		if err := s.membershipRepo.Update(ctx, existing); err != nil {
			s.logger.Error("Failed to restore membership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to grant membership")
		}
		s.logger.Info("Membership restored",
			zap.String("user_id", input.UserID.String()),
			zap.String("dealership_id", input.DealershipID.String()),
			zap.String("role", string(input.Role)))
		return &MembershipInfo{DealershipID: existing.DealershipID, Role: existing.Role, Active: existing.Active}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to grant membership")
	}

	membership, err := identity.NewMembership(input.UserID, input.DealershipID, input.Role)
	if err != nil {
		return nil, err
	}

	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		s.logger.Error("Failed to create membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to grant membership")
	}

	s.logger.Info("Membership granted",
		zap.String("user_id", input.UserID.String()),
		zap.String("dealership_id", input.DealershipID.String()),
		zap.String("role", string(input.Role)))

	return &MembershipInfo{DealershipID: membership.DealershipID, Role: membership.Role, Active: membership.Active}, nil
}

// ChangeRole changes the role a user holds in a dealership
func (s *UserService) ChangeRole(ctx context.Context, userID, dealershipID uuid.UUID, role identity.Role) error {
	membership, err := s.membershipRepo.FindByUserAndDealership(ctx, userID, dealershipID)
	if err != nil {
		return shared.NewDomainError("MEMBERSHIP_NOT_FOUND", "User does not belong to this dealership")
	}

	if err := membership.ChangeRole(role); err != nil {
		return err
	}

	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		s.logger.Error("Failed to change role", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change role")
	}

	s.logger.Info("Role changed",
		zap.String("user_id", userID.String()),
		zap.String("dealership_id", dealershipID.String()),
		zap.String("role", string(role)))
	return nil
}

// RevokeMembership revokes a user's membership in a dealership
func (s *UserService) RevokeMembership(ctx context.Context, userID, dealershipID uuid.UUID) error {
	membership, err := s.membershipRepo.FindByUserAndDealership(ctx, userID, dealershipID)
	if err != nil {
		return shared.NewDomainError("MEMBERSHIP_NOT_FOUND", "User does not belong to this dealership")
	}

	if err := membership.Revoke(); err != nil {
		return err
	}

	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		s.logger.Error("Failed to revoke membership", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke membership")
	}

	s.logger.Info("Membership revoked",
		zap.String("user_id", userID.String()),
		zap.String("dealership_id", dealershipID.String()))
	return nil
}

// ListDealershipUsers returns all users with a membership in a dealership
func (s *UserService) ListDealershipUsers(ctx context.Context, dealershipID uuid.UUID) ([]UserInfo, error) {
	memberships, err := s.membershipRepo.FindByDealership(ctx, dealershipID)
	if err != nil {
		s.logger.Error("Failed to list dealership memberships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	users := make([]UserInfo, 0, len(memberships))
	for _, m := range memberships {
		user, err := s.userRepo.FindByID(ctx, m.UserID)
		if err != nil {
			s.logger.Warn("Membership references missing user",
				zap.String("user_id", m.UserID.String()))
			continue
		}
		info := userInfoFrom(user, []*identity.Membership{m})
		users = append(users, info)
	}
	return users, nil
}
