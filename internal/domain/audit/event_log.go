// Package audit holds the append-only records the CRM writes as a side effect
// of business operations: the domain event log that reporting replays, and
// integration events that trace every ingested row back to its source.
package audit

import (
	"encoding/json"
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventLogEntry is one persisted domain event. Entries are immutable once
// written; reporting rebuilds funnel metrics by replaying them in order.
type EventLogEntry struct {
	ID            uuid.UUID
	DealershipID  uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Payload       json.RawMessage
	OccurredAt    time.Time
	RecordedAt    time.Time
}

// NewEventLogEntry captures a domain event as a log entry
func NewEventLogEntry(event shared.DomainEvent) (*EventLogEntry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, shared.NewDomainError("EVENT_ENCODE_ERROR", "Failed to encode domain event")
	}

	return &EventLogEntry{
		ID:            event.EventID(),
		DealershipID:  event.DealershipID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		Payload:       payload,
		OccurredAt:    event.OccurredAt(),
		RecordedAt:    time.Now(),
	}, nil
}

// IntegrationEventStatus marks whether an inbound row was accepted
type IntegrationEventStatus string

const (
	IntegrationEventAccepted IntegrationEventStatus = "ACCEPTED"
	IntegrationEventRejected IntegrationEventStatus = "REJECTED"
)

// IntegrationEvent records one row received from an external source (CSV
// import or webhook), whether it produced a lead or not.
type IntegrationEvent struct {
	ID           uuid.UUID
	DealershipID uuid.UUID
	Source       string // e.g. "csv_import", "webhook:autotrader"
	Status       IntegrationEventStatus
	LeadID       *uuid.UUID // Set when the row produced a lead
	RowNumber    int        // 1-based data row number for CSV, 0 for webhooks
	Detail       string     // Rejection reason or provider reference
	Payload      json.RawMessage
	ReceivedAt   time.Time
}

// NewIntegrationEvent records one inbound row
func NewIntegrationEvent(dealershipID uuid.UUID, source string, status IntegrationEventStatus, rowNumber int, detail string, payload json.RawMessage) *IntegrationEvent {
	return &IntegrationEvent{
		ID:           uuid.New(),
		DealershipID: dealershipID,
		Source:       source,
		Status:       status,
		RowNumber:    rowNumber,
		Detail:       detail,
		Payload:      payload,
		ReceivedAt:   time.Now(),
	}
}

// AttachLead links the event to the lead it produced
func (e *IntegrationEvent) AttachLead(leadID uuid.UUID) {
	e.LeadID = &leadID
}
