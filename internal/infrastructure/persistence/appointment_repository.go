package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/persistence/models"
)

// GormAppointmentRepository implements crm.AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// Create creates a new appointment
func (r *GormAppointmentRepository) Create(ctx context.Context, appt *crm.Appointment) error {
	model := models.AppointmentModelFromDomain(appt)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing appointment
func (r *GormAppointmentRepository) Update(ctx context.Context, appt *crm.Appointment) error {
	model := models.AppointmentModelFromDomain(appt)
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND dealership_id = ?", appt.ID, appt.DealershipID).
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

// FindByID finds an appointment by ID within a dealership
func (r *GormAppointmentRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Appointment, error) {
	var model models.AppointmentModel
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

// FindByLead returns all appointments for a lead, newest first
func (r *GormAppointmentRepository) FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Appointment, error) {
	var apptModels []models.AppointmentModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND lead_id = ?", dealershipID, leadID).
		Order("scheduled_at DESC").
		Find(&apptModels).Error; err != nil {
		return nil, err
	}
	return toAppointments(apptModels), nil
}

// FindUpcoming returns pending appointments scheduled inside the window
func (r *GormAppointmentRepository) FindUpcoming(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*crm.Appointment, error) {
	var apptModels []models.AppointmentModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND scheduled_at >= ? AND scheduled_at < ? AND status IN ?",
			dealershipID, from, to,
			[]string{string(crm.AppointmentStatusSet), string(crm.AppointmentStatusConfirmed)}).
		Order("scheduled_at ASC").
		Find(&apptModels).Error; err != nil {
		return nil, err
	}
	return toAppointments(apptModels), nil
}

func toAppointments(apptModels []models.AppointmentModel) []*crm.Appointment {
	appts := make([]*crm.Appointment, len(apptModels))
	for i := range apptModels {
		appts[i] = apptModels[i].ToDomain()
	}
	return appts
}

// Ensure GormAppointmentRepository implements AppointmentRepository
var _ crm.AppointmentRepository = (*GormAppointmentRepository)(nil)
