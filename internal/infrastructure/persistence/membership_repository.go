package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// GormMembershipRepository implements identity.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create creates a new membership
func (r *GormMembershipRepository) Create(ctx context.Context, membership *identity.Membership) error {
	model := models.MembershipModelFromDomain(membership)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing membership
func (r *GormMembershipRepository) Update(ctx context.Context, membership *identity.Membership) error {
	model := models.MembershipModelFromDomain(membership)
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", membership.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByUserAndDealership finds the membership a user holds in a dealership
func (r *GormMembershipRepository) FindByUserAndDealership(ctx context.Context, userID, dealershipID uuid.UUID) (*identity.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND dealership_id = ?", userID, dealershipID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns all memberships for a user
func (r *GormMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.Membership, error) {
	var membershipModels []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	return toMemberships(membershipModels), nil
}

// FindByDealership returns all memberships of a dealership
func (r *GormMembershipRepository) FindByDealership(ctx context.Context, dealershipID uuid.UUID) ([]*identity.Membership, error) {
	var membershipModels []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ?", dealershipID).
		Order("created_at ASC").
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}
	return toMemberships(membershipModels), nil
}

func toMemberships(membershipModels []models.MembershipModel) []*identity.Membership {
	memberships := make([]*identity.Membership, len(membershipModels))
	for i := range membershipModels {
		memberships[i] = membershipModels[i].ToDomain()
	}
	return memberships
}

// Ensure GormMembershipRepository implements MembershipRepository
var _ identity.MembershipRepository = (*GormMembershipRepository)(nil)
