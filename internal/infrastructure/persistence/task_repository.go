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

// GormTaskRepository implements crm.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *crm.Task) error {
	model := models.TaskModelFromDomain(task)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing task
func (r *GormTaskRepository) Update(ctx context.Context, task *crm.Task) error {
	model := models.TaskModelFromDomain(task)
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND dealership_id = ?", task.ID, task.DealershipID).
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

// FindByID finds a task by ID within a dealership
func (r *GormTaskRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Task, error) {
	var model models.TaskModel
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

// FindByLead returns all tasks for a lead
func (r *GormTaskRepository) FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Task, error) {
	var taskModels []models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND lead_id = ?", dealershipID, leadID).
		Order("created_at DESC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toTasks(taskModels), nil
}

// FindOpenByAssignee returns open tasks assigned to a user, soonest due first
func (r *GormTaskRepository) FindOpenByAssignee(ctx context.Context, dealershipID, userID uuid.UUID) ([]*crm.Task, error) {
	var taskModels []models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("dealership_id = ? AND assigned_to = ? AND status = ?",
			dealershipID, userID, string(crm.TaskStatusOpen)).
		Order("due_at ASC NULLS LAST").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toTasks(taskModels), nil
}

func toTasks(taskModels []models.TaskModel) []*crm.Task {
	tasks := make([]*crm.Task, len(taskModels))
	for i := range taskModels {
		tasks[i] = taskModels[i].ToDomain()
	}
	return tasks
}

// Ensure GormTaskRepository implements TaskRepository
var _ crm.TaskRepository = (*GormTaskRepository)(nil)
