package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/domain/audit"
)

// EventLogModel is the persistence model for the append-only domain event log
type EventLogModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	DealershipID  uuid.UUID `gorm:"type:uuid;not null;index:idx_event_log_dealership_occurred"`
	EventType     string    `gorm:"type:varchar(100);not null;index"`
	AggregateType string    `gorm:"type:varchar(50);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Payload       []byte    `gorm:"type:jsonb"`
	OccurredAt    time.Time `gorm:"not null;index:idx_event_log_dealership_occurred"`
	RecordedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for EventLogModel
func (EventLogModel) TableName() string {
	return "event_log"
}

// ToDomain converts EventLogModel to a domain EventLogEntry
func (m *EventLogModel) ToDomain() *audit.EventLogEntry {
	return &audit.EventLogEntry{
		ID:            m.ID,
		DealershipID:  m.DealershipID,
		EventType:     m.EventType,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		Payload:       m.Payload,
		OccurredAt:    m.OccurredAt,
		RecordedAt:    m.RecordedAt,
	}
}

// EventLogModelFromDomain converts a domain EventLogEntry to EventLogModel
func EventLogModelFromDomain(entry *audit.EventLogEntry) *EventLogModel {
	return &EventLogModel{
		ID:            entry.ID,
		DealershipID:  entry.DealershipID,
		EventType:     entry.EventType,
		AggregateType: entry.AggregateType,
		AggregateID:   entry.AggregateID,
		Payload:       entry.Payload,
		OccurredAt:    entry.OccurredAt,
		RecordedAt:    entry.RecordedAt,
	}
}

// IntegrationEventModel is the persistence model for integration events
type IntegrationEventModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	DealershipID uuid.UUID  `gorm:"type:uuid;not null;index:idx_integration_events_dealership_received"`
	Source       string     `gorm:"type:varchar(100);not null;index"`
	Status       string     `gorm:"type:varchar(20);not null"`
	LeadID       *uuid.UUID `gorm:"type:uuid;index"`
	RowNumber    int        `gorm:"not null;default:0"`
	Detail       string     `gorm:"type:varchar(500)"`
	Payload      []byte     `gorm:"type:jsonb"`
	ReceivedAt   time.Time  `gorm:"not null;index:idx_integration_events_dealership_received"`
}

// TableName returns the table name for IntegrationEventModel
func (IntegrationEventModel) TableName() string {
	return "integration_events"
}

// ToDomain converts IntegrationEventModel to a domain IntegrationEvent
func (m *IntegrationEventModel) ToDomain() *audit.IntegrationEvent {
	return &audit.IntegrationEvent{
		ID:           m.ID,
		DealershipID: m.DealershipID,
		Source:       m.Source,
		Status:       audit.IntegrationEventStatus(m.Status),
		LeadID:       m.LeadID,
		RowNumber:    m.RowNumber,
		Detail:       m.Detail,
		Payload:      m.Payload,
		ReceivedAt:   m.ReceivedAt,
	}
}

// IntegrationEventModelFromDomain converts a domain IntegrationEvent to IntegrationEventModel
func IntegrationEventModelFromDomain(event *audit.IntegrationEvent) *IntegrationEventModel {
	return &IntegrationEventModel{
		ID:           event.ID,
		DealershipID: event.DealershipID,
		Source:       event.Source,
		Status:       string(event.Status),
		LeadID:       event.LeadID,
		RowNumber:    event.RowNumber,
		Detail:       event.Detail,
		Payload:      event.Payload,
		ReceivedAt:   event.ReceivedAt,
	}
}
