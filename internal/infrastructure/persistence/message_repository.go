package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// GormMessageRepository implements crm.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create creates a new message
func (r *GormMessageRepository) Create(ctx context.Context, msg *crm.Message) error {
	model := models.MessageModelFromDomain(msg)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing message
func (r *GormMessageRepository) Update(ctx context.Context, msg *crm.Message) error {
	model := models.MessageModelFromDomain(msg)
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND dealership_id = ?", msg.ID, msg.DealershipID).
		Select("*").Omit("id", "dealership_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a message by ID within a dealership
func (r *GormMessageRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Message, error) {
	var model models.MessageModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLead returns the message timeline for a lead, newest first
func (r *GormMessageRepository) FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Message, error) {
	var msgModels []models.MessageModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND lead_id = ?", dealershipID, leadID).
		Order("created_at DESC").
		Find(&msgModels).Error; err != nil {
		return nil, err
	}

	msgs := make([]*crm.Message, len(msgModels))
	for i := range msgModels {
		msgs[i] = msgModels[i].ToDomain()
	}
	return msgs, nil
}

// CountByLead returns per-direction message counts for a lead
func (r *GormMessageRepository) CountByLead(ctx context.Context, dealershipID, leadID uuid.UUID) (outbound, inbound int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("dealership_id = ? AND lead_id = ? AND direction = ?",
			dealershipID, leadID, string(crm.MessageDirectionOutbound)).
		Count(&outbound).Error; err != nil {
		return 0, 0, err
	}

	if err = r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("dealership_id = ? AND lead_id = ? AND direction = ?",
			dealershipID, leadID, string(crm.MessageDirectionInbound)).
		Count(&inbound).Error; err != nil {
		return 0, 0, err
	}

	return outbound, inbound, nil
}

// Ensure GormMessageRepository implements MessageRepository
var _ crm.MessageRepository = (*GormMessageRepository)(nil)
