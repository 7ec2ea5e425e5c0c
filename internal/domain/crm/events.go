package crm

import (
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeLead        = "Lead"
	AggregateTypeAppointment = "Appointment"
	AggregateTypeMessage     = "Message"
)

// CRM domain event types. Event log rows of these types feed the
// reporting replay.
const (
	EventTypeLeadCreated          = "LeadCreated"
	EventTypeLeadStatusChanged    = "LeadStatusChanged"
	EventTypeLeadAssigned         = "LeadAssigned"
	EventTypeAppointmentScheduled = "AppointmentScheduled"
	EventTypeAppointmentOutcome   = "AppointmentOutcome"
	EventTypeMessageLogged        = "MessageLogged"
)

// LeadCreatedEvent is published when a lead enters the pipeline
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	Source LeadSource `json:"source"`
	Status LeadStatus `json:"status"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(lead *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, lead.ID, lead.DealershipID),
		Source:          lead.Source,
		Status:          lead.Status,
	}
}

// LeadStatusChangedEvent is published on every pipeline transition
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus LeadStatus `json:"old_status"`
	NewStatus LeadStatus `json:"new_status"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent
func NewLeadStatusChangedEvent(lead *Lead, oldStatus, newStatus LeadStatus) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStatusChanged, AggregateTypeLead, lead.ID, lead.DealershipID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// LeadAssignedEvent is published when a lead is handed to a salesperson
type LeadAssignedEvent struct {
	shared.BaseDomainEvent
	AssignedTo uuid.UUID `json:"assigned_to"`
}

// NewLeadAssignedEvent creates a new LeadAssignedEvent
func NewLeadAssignedEvent(lead *Lead, assignedTo uuid.UUID) *LeadAssignedEvent {
	return &LeadAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadAssigned, AggregateTypeLead, lead.ID, lead.DealershipID),
		AssignedTo:      assignedTo,
	}
}

// AppointmentScheduledEvent is published when an appointment is set
type AppointmentScheduledEvent struct {
	shared.BaseDomainEvent
	LeadID uuid.UUID `json:"lead_id"`
}

// NewAppointmentScheduledEvent creates a new AppointmentScheduledEvent
func NewAppointmentScheduledEvent(appt *Appointment) *AppointmentScheduledEvent {
	return &AppointmentScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentScheduled, AggregateTypeAppointment, appt.ID, appt.DealershipID),
		LeadID:          appt.LeadID,
	}
}

// AppointmentOutcomeEvent is published when an appointment resolves to SHOWED or NO_SHOW
type AppointmentOutcomeEvent struct {
	shared.BaseDomainEvent
	LeadID  uuid.UUID         `json:"lead_id"`
	Outcome AppointmentStatus `json:"outcome"`
}

// NewAppointmentOutcomeEvent creates a new AppointmentOutcomeEvent
func NewAppointmentOutcomeEvent(appt *Appointment) *AppointmentOutcomeEvent {
	return &AppointmentOutcomeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentOutcome, AggregateTypeAppointment, appt.ID, appt.DealershipID),
		LeadID:          appt.LeadID,
		Outcome:         appt.Status,
	}
}

// MessageLoggedEvent is published when a message lands on a lead's timeline
type MessageLoggedEvent struct {
	shared.BaseDomainEvent
	LeadID    uuid.UUID        `json:"lead_id"`
	Channel   MessageChannel   `json:"channel"`
	Direction MessageDirection `json:"direction"`
}

// NewMessageLoggedEvent creates a new MessageLoggedEvent
func NewMessageLoggedEvent(msg *Message) *MessageLoggedEvent {
	return &MessageLoggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageLogged, AggregateTypeMessage, msg.ID, msg.DealershipID),
		LeadID:          msg.LeadID,
		Channel:         msg.Channel,
		Direction:       msg.Direction,
	}
}
