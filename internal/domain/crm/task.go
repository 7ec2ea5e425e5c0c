package crm

import (
	"strings"
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus represents follow-up task state
type TaskStatus string

const (
	TaskStatusOpen     TaskStatus = "OPEN"
	TaskStatusDone     TaskStatus = "DONE"
	TaskStatusCanceled TaskStatus = "CANCELED"
)

// Task is a follow-up item on a lead, usually assigned to a salesperson
type Task struct {
	shared.DealershipAggregateRoot
	LeadID     uuid.UUID
	Title      string
	Detail     string
	DueAt      *time.Time
	AssignedTo *uuid.UUID
	Status     TaskStatus
	DoneAt     *time.Time
}

// NewTask creates an open follow-up task for a lead
func NewTask(dealershipID, leadID uuid.UUID, title string) (*Task, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}

	return &Task{
		DealershipAggregateRoot: shared.NewDealershipAggregateRoot(dealershipID),
		LeadID:                  leadID,
		Title:                   title,
		Status:                  TaskStatusOpen,
	}, nil
}

// SetDue sets the due time
func (t *Task) SetDue(dueAt time.Time) {
	t.DueAt = &dueAt
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// AssignTo assigns the task to a user
func (t *Task) AssignTo(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER_ID", "Assignee cannot be empty")
	}

	t.AssignedTo = &userID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Complete marks the task done
func (t *Task) Complete() error {
	if t.Status != TaskStatusOpen {
		return shared.ErrInvalidState
	}

	now := time.Now()
	t.Status = TaskStatusDone
	t.DoneAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// Cancel cancels an open task
func (t *Task) Cancel() error {
	if t.Status != TaskStatusOpen {
		return shared.ErrInvalidState
	}

	t.Status = TaskStatusCanceled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsOverdue reports whether an open task is past its due time
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == TaskStatusOpen && t.DueAt != nil && t.DueAt.Before(now)
}
