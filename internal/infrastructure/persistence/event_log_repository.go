package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// GormEventLogRepository implements audit.EventLogRepository using GORM
type GormEventLogRepository struct {
	db *gorm.DB
}

// NewGormEventLogRepository creates a new GormEventLogRepository
func NewGormEventLogRepository(db *gorm.DB) *GormEventLogRepository {
	return &GormEventLogRepository{db: db}
}

// Append writes entries to the log. Entries are never updated or deleted.
func (r *GormEventLogRepository) Append(ctx context.Context, entries ...*audit.EventLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	entryModels := make([]*models.EventLogModel, len(entries))
	for i, entry := range entries {
		entryModels[i] = models.EventLogModelFromDomain(entry)
	}
	return r.db.WithContext(ctx).Create(entryModels).Error
}

// FindByDealership returns entries for a dealership inside a time window,
// ordered by occurrence
func (r *GormEventLogRepository) FindByDealership(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*audit.EventLogEntry, error) {
	var entryModels []models.EventLogModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND occurred_at >= ? AND occurred_at < ?", dealershipID, from, to).
		Order("occurred_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toEventLogEntries(entryModels), nil
}

// FindByAggregate returns the history of one aggregate, ordered by occurrence
func (r *GormEventLogRepository) FindByAggregate(ctx context.Context, dealershipID, aggregateID uuid.UUID) ([]*audit.EventLogEntry, error) {
	var entryModels []models.EventLogModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND aggregate_id = ?", dealershipID, aggregateID).
		Order("occurred_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toEventLogEntries(entryModels), nil
}

func toEventLogEntries(entryModels []models.EventLogModel) []*audit.EventLogEntry {
	entries := make([]*audit.EventLogEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries
}

// Ensure GormEventLogRepository implements EventLogRepository
var _ audit.EventLogRepository = (*GormEventLogRepository)(nil)
