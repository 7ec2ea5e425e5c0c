package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// GormDealershipRepository implements identity.DealershipRepository using GORM
type GormDealershipRepository struct {
	db *gorm.DB
}

// NewGormDealershipRepository creates a new GormDealershipRepository
func NewGormDealershipRepository(db *gorm.DB) *GormDealershipRepository {
	return &GormDealershipRepository{db: db}
}

// Create creates a new dealership
func (r *GormDealershipRepository) Create(ctx context.Context, dealership *identity.Dealership) error {
	model := models.DealershipModelFromDomain(dealership)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing dealership
func (r *GormDealershipRepository) Update(ctx context.Context, dealership *identity.Dealership) error {
	model := models.DealershipModelFromDomain(dealership)
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", dealership.ID).
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

// FindByID finds a dealership by ID
func (r *GormDealershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Dealership, error) {
	var model models.DealershipModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a dealership by its short code
func (r *GormDealershipRepository) FindByCode(ctx context.Context, code string) (*identity.Dealership, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Dealership code cannot be empty")
	}
	var model models.DealershipModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all dealerships
func (r *GormDealershipRepository) FindAll(ctx context.Context) ([]*identity.Dealership, error) {
	var dealershipModels []models.DealershipModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&dealershipModels).Error; err != nil {
		return nil, err
	}

	dealerships := make([]*identity.Dealership, len(dealershipModels))
	for i := range dealershipModels {
		dealerships[i] = dealershipModels[i].ToDomain()
	}
	return dealerships, nil
}

// Ensure GormDealershipRepository implements DealershipRepository
var _ identity.DealershipRepository = (*GormDealershipRepository)(nil)
