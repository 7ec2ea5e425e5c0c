package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// leadSortColumns is the whitelist of sortable columns. Sorting by anything
// else falls back to created_at.
var leadSortColumns = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"last_activity_at": true,
	"score":            true,
	"status":           true,
	"last_name":        true,
}

// GormLeadRepository implements crm.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// Create creates a new lead
func (r *GormLeadRepository) Create(ctx context.Context, lead *crm.Lead) error {
	model := models.LeadModelFromDomain(lead)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing lead with optimistic locking.
// Returns ErrConcurrencyConflict if the version has moved on.
func (r *GormLeadRepository) Update(ctx context.Context, lead *crm.Lead) error {
	model := models.LeadModelFromDomain(lead)
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND dealership_id = ? AND version = ?", lead.ID, lead.DealershipID, lead.Version-1).
		Select("*").Omit("id", "dealership_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a lead by ID within a dealership
func (r *GormLeadRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Lead, error) {
	var model models.LeadModel
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

// FindAll returns leads for a dealership matching the filter, with the total
// count before pagination
func (r *GormLeadRepository) FindAll(ctx context.Context, dealershipID uuid.UUID, filter crm.LeadFilter) ([]*crm.Lead, int64, error) {
	var total int64
	countQuery := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("dealership_id = ?", dealershipID),
		filter,
	)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leadModels []models.LeadModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("dealership_id = ?", dealershipID),
		filter,
	).
		Order(r.orderClause(filter)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&leadModels).Error; err != nil {
		return nil, 0, err
	}

	return toLeads(leadModels), total, nil
}

// FindByEmail finds leads matching an email within a dealership
func (r *GormLeadRepository) FindByEmail(ctx context.Context, dealershipID uuid.UUID, email string) ([]*crm.Lead, error) {
	if email == "" {
		return []*crm.Lead{}, nil
	}
	var leadModels []models.LeadModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND email = ?", dealershipID, strings.ToLower(email)).
		Find(&leadModels).Error; err != nil {
		return nil, err
	}
	return toLeads(leadModels), nil
}

// FindByPhone finds leads matching a phone number within a dealership
func (r *GormLeadRepository) FindByPhone(ctx context.Context, dealershipID uuid.UUID, phone string) ([]*crm.Lead, error) {
	if phone == "" {
		return []*crm.Lead{}, nil
	}
	var leadModels []models.LeadModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND phone = ?", dealershipID, phone).
		Find(&leadModels).Error; err != nil {
		return nil, err
	}
	return toLeads(leadModels), nil
}

// Count returns the number of leads in a dealership
func (r *GormLeadRepository) Count(ctx context.Context, dealershipID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("dealership_id = ?", dealershipID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies the non-pagination parts of the filter
func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter crm.LeadFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	return query
}

// orderClause builds a safe ORDER BY from the filter
func (r *GormLeadRepository) orderClause(filter crm.LeadFilter) string {
	column := filter.SortBy
	if !leadSortColumns[column] {
		column = "created_at"
	}
	direction := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}

func toLeads(leadModels []models.LeadModel) []*crm.Lead {
	leads := make([]*crm.Lead, len(leadModels))
	for i := range leadModels {
		leads[i] = leadModels[i].ToDomain()
	}
	return leads
}

// Ensure GormLeadRepository implements LeadRepository
var _ crm.LeadRepository = (*GormLeadRepository)(nil)
