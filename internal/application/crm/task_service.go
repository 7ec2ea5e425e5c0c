package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// TaskService handles follow-up tasks
type TaskService struct {
	repo     crm.TaskRepository
	leadRepo crm.LeadRepository
	logger   *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(repo crm.TaskRepository, leadRepo crm.LeadRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		leadRepo: leadRepo,
		logger:   logger,
	}
}

// CreateTask creates a follow-up task on a lead
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*crm.Task, error) {
	if _, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID); err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	task, err := crm.NewTask(input.DealershipID, input.LeadID, input.Title)
	if err != nil {
		return nil, err
	}
	if input.DueAt != nil {
		task.SetDue(*input.DueAt)
	}
	if input.AssigneeID != nil {
		if err := task.AssignTo(*input.AssigneeID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create task")
	}

	s.logger.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("lead_id", input.LeadID.String()))

	return task, nil
}

// CompleteTask marks a task as done and touches the lead's activity clock
func (s *TaskService) CompleteTask(ctx context.Context, dealershipID, taskID uuid.UUID) (*crm.Task, error) {
	task, err := s.repo.FindByID(ctx, dealershipID, taskID)
	if err != nil {
		return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}

	if err := task.Complete(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Error("Failed to update task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete task")
	}

	if lead, err := s.leadRepo.FindByID(ctx, dealershipID, task.LeadID); err == nil {
		lead.TouchActivity(time.Now())
		if err := s.leadRepo.Update(ctx, lead); err != nil {
			s.logger.Warn("Failed to touch lead after task completion", zap.Error(err))
		}
	}

	return task, nil
}

// CancelTask cancels an open task
func (s *TaskService) CancelTask(ctx context.Context, dealershipID, taskID uuid.UUID) (*crm.Task, error) {
	task, err := s.repo.FindByID(ctx, dealershipID, taskID)
	if err != nil {
		return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}

	if err := task.Cancel(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Error("Failed to update task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel task")
	}

	return task, nil
}

// ListLeadTasks returns all tasks for a lead
func (s *TaskService) ListLeadTasks(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Task, error) {
	tasks, err := s.repo.FindByLead(ctx, dealershipID, leadID)
	if err != nil {
		s.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}
	return tasks, nil
}

// ListOpenTasks returns open tasks assigned to a user, due first
func (s *TaskService) ListOpenTasks(ctx context.Context, dealershipID, userID uuid.UUID) ([]*crm.Task, error) {
	tasks, err := s.repo.FindOpenByAssignee(ctx, dealershipID, userID)
	if err != nil {
		s.logger.Error("Failed to list open tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}
	return tasks, nil
}
