package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadFilter contains filter options for querying leads
type LeadFilter struct {
	// Search keyword for name, email, or phone
	Keyword string

	// Filter by pipeline status
	Status *LeadStatus

	// Filter by source
	Source *LeadSource

	// Filter by assignee
	AssignedTo *uuid.UUID

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewLeadFilter creates a LeadFilter with default values
func NewLeadFilter() LeadFilter {
	return LeadFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f LeadFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f LeadFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// LeadRepository defines the interface for lead persistence. Every read is
// dealership-scoped.
type LeadRepository interface {
	// Create creates a new lead
	Create(ctx context.Context, lead *Lead) error

	// Update updates an existing lead
	Update(ctx context.Context, lead *Lead) error

	// FindByID finds a lead by ID within a dealership
	FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*Lead, error)

	// FindAll returns leads for a dealership with pagination
	FindAll(ctx context.Context, dealershipID uuid.UUID, filter LeadFilter) ([]*Lead, int64, error)

	// FindByEmail finds leads matching an email within a dealership
	FindByEmail(ctx context.Context, dealershipID uuid.UUID, email string) ([]*Lead, error)

	// FindByPhone finds leads matching a phone number within a dealership
	FindByPhone(ctx context.Context, dealershipID uuid.UUID, phone string) ([]*Lead, error)

	// Count returns the number of leads in a dealership
	Count(ctx context.Context, dealershipID uuid.UUID) (int64, error)
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appt *Appointment) error

	// Update updates an existing appointment
	Update(ctx context.Context, appt *Appointment) error

	// FindByID finds an appointment by ID within a dealership
	FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*Appointment, error)

	// FindByLead returns all appointments for a lead
	FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*Appointment, error)

	// FindUpcoming returns pending appointments scheduled inside the window
	FindUpcoming(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}

// TaskRepository defines the interface for follow-up task persistence
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *Task) error

	// Update updates an existing task
	Update(ctx context.Context, task *Task) error

	// FindByID finds a task by ID within a dealership
	FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*Task, error)

	// FindByLead returns all tasks for a lead
	FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*Task, error)

	// FindOpenByAssignee returns open tasks assigned to a user
	FindOpenByAssignee(ctx context.Context, dealershipID, userID uuid.UUID) ([]*Task, error)
}

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	// Create creates a new message
	Create(ctx context.Context, msg *Message) error

	// Update updates an existing message
	Update(ctx context.Context, msg *Message) error

	// FindByID finds a message by ID within a dealership
	FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*Message, error)

	// FindByLead returns the message timeline for a lead, newest first
	FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*Message, error)

	// CountByLead returns per-direction message counts for a lead
	CountByLead(ctx context.Context, dealershipID, leadID uuid.UUID) (outbound, inbound int64, err error)
}
