package crm

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/domain/crm"
)

// CreateLeadInput contains a manually entered lead
type CreateLeadInput struct {
	DealershipID    uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Source          crm.LeadSource
	SourceDetail    string
	Type            crm.LeadType
	VehicleInterest string
	TradeIn         string
	Notes           string
	CreatedBy       uuid.UUID
}

// UpdateLeadInput contains editable lead fields
type UpdateLeadInput struct {
	DealershipID    uuid.UUID
	LeadID          uuid.UUID
	Email           string
	Phone           string
	VehicleInterest string
	TradeIn         string
	Notes           string
}

// TransitionLeadInput moves a lead along the pipeline
type TransitionLeadInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	Target       crm.LeadStatus
}

// MarkLostInput closes a lead as lost
type MarkLostInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	Reason       string
}

// AssignLeadInput assigns a lead to a user
type AssignLeadInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	AssigneeID   uuid.UUID
}

// ListLeadsResult is one page of leads plus the unpaginated total
type ListLeadsResult struct {
	Leads    []*crm.Lead
	Total    int64
	Page     int
	PageSize int
}

// ScheduleAppointmentInput books a showroom visit for a lead
type ScheduleAppointmentInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	ScheduledAt  time.Time
	Notes        string
}

// RescheduleAppointmentInput moves an appointment to a new time
type RescheduleAppointmentInput struct {
	DealershipID  uuid.UUID
	AppointmentID uuid.UUID
	ScheduledAt   time.Time
}

// CreateTaskInput creates a follow-up task on a lead
type CreateTaskInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	Title        string
	DueAt        *time.Time
	AssigneeID   *uuid.UUID
}

// SendMessageInput sends an outbound message on a lead
type SendMessageInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	Channel      crm.MessageChannel
	Body         string
	From         string // Sending number or address, passed to the provider
	To           string // Overrides the lead's stored contact when set
	SentBy       *uuid.UUID
}

// RecordInboundMessageInput logs a message received from a shopper
type RecordInboundMessageInput struct {
	DealershipID uuid.UUID
	LeadID       uuid.UUID
	Channel      crm.MessageChannel
	Body         string
	ExternalID   string
}
