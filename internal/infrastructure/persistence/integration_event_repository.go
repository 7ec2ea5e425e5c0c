package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationEventRepository implements audit.IntegrationEventRepository using GORM
type GormIntegrationEventRepository struct {
	db *gorm.DB
}

// NewGormIntegrationEventRepository creates a new GormIntegrationEventRepository
func NewGormIntegrationEventRepository(db *gorm.DB) *GormIntegrationEventRepository {
	return &GormIntegrationEventRepository{db: db}
}

// Create records an inbound row
func (r *GormIntegrationEventRepository) Create(ctx context.Context, event *audit.IntegrationEvent) error {
	model := models.IntegrationEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByDealership returns integration events for a dealership inside a window
func (r *GormIntegrationEventRepository) FindByDealership(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*audit.IntegrationEvent, error) {
	var eventModels []models.IntegrationEventModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND received_at >= ? AND received_at < ?", dealershipID, from, to).
		Order("received_at ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]*audit.IntegrationEvent, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToDomain()
	}
	return events, nil
}

// CountBySource returns accepted/rejected counts per source inside a window
func (r *GormIntegrationEventRepository) CountBySource(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) (map[string]audit.SourceCounts, error) {
	type row struct {
		Source string
		Status string
		Total  int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.IntegrationEventModel{}).
		Select("source, status, COUNT(*) AS total").
		Where("dealership_id = ? AND received_at >= ? AND received_at < ?", dealershipID, from, to).
		Group("source, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]audit.SourceCounts, len(rows))
	for _, rw := range rows {
		c := counts[rw.Source]
		switch audit.IntegrationEventStatus(rw.Status) {
		case audit.IntegrationEventAccepted:
			c.Accepted += rw.Total
		case audit.IntegrationEventRejected:
			c.Rejected += rw.Total
		}
		counts[rw.Source] = c
	}
	return counts, nil
}

// Ensure GormIntegrationEventRepository implements IntegrationEventRepository
var _ audit.IntegrationEventRepository = (*GormIntegrationEventRepository)(nil)
