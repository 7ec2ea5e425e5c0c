package crm

import (
	"strings"
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageChannel is the medium a message travels over
type MessageChannel string

const (
	MessageChannelSMS   MessageChannel = "SMS"
	MessageChannelEmail MessageChannel = "EMAIL"
	MessageChannelCall  MessageChannel = "CALL" // Call log entry, body holds the summary
)

// MessageDirection distinguishes store-sent from shopper-sent messages
type MessageDirection string

const (
	MessageDirectionOutbound MessageDirection = "OUTBOUND"
	MessageDirectionInbound  MessageDirection = "INBOUND"
)

// MessageStatus tracks delivery of outbound messages
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "PENDING"
	MessageStatusSent      MessageStatus = "SENT"
	MessageStatusFailed    MessageStatus = "FAILED"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusReceived  MessageStatus = "RECEIVED" // Inbound messages land here directly
)

// Message is one communication touch on a lead
type Message struct {
	shared.DealershipAggregateRoot
	LeadID     uuid.UUID
	Channel    MessageChannel
	Direction  MessageDirection
	Status     MessageStatus
	Body       string
	SentBy     *uuid.UUID // User who sent it, nil for inbound or automated sends
	ExternalID string     // Provider-side message ID, when known
	FailReason string
}

// NewOutboundMessage creates a pending outbound message
func NewOutboundMessage(dealershipID, leadID uuid.UUID, channel MessageChannel, body string, sentBy *uuid.UUID) (*Message, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message body cannot be empty")
	}

	msg := &Message{
		DealershipAggregateRoot: shared.NewDealershipAggregateRoot(dealershipID),
		LeadID:                  leadID,
		Channel:                 channel,
		Direction:               MessageDirectionOutbound,
		Status:                  MessageStatusPending,
		Body:                    body,
		SentBy:                  sentBy,
	}

	msg.AddDomainEvent(NewMessageLoggedEvent(msg))

	return msg, nil
}

// NewInboundMessage records a message received from the shopper
func NewInboundMessage(dealershipID, leadID uuid.UUID, channel MessageChannel, body, externalID string) (*Message, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message body cannot be empty")
	}

	msg := &Message{
		DealershipAggregateRoot: shared.NewDealershipAggregateRoot(dealershipID),
		LeadID:                  leadID,
		Channel:                 channel,
		Direction:               MessageDirectionInbound,
		Status:                  MessageStatusReceived,
		Body:                    body,
		ExternalID:              externalID,
	}

	msg.AddDomainEvent(NewMessageLoggedEvent(msg))

	return msg, nil
}

// MarkSent records a successful handoff to the provider
func (m *Message) MarkSent(externalID string) error {
	if m.Status != MessageStatusPending {
		return shared.ErrInvalidState
	}

	m.Status = MessageStatusSent
	m.ExternalID = externalID
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// MarkFailed records a provider failure. The message stays on the timeline.
func (m *Message) MarkFailed(reason string) error {
	if m.Status != MessageStatusPending && m.Status != MessageStatusSent {
		return shared.ErrInvalidState
	}

	m.Status = MessageStatusFailed
	m.FailReason = reason
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// MarkDelivered records a delivery receipt from the provider
func (m *Message) MarkDelivered() error {
	if m.Status != MessageStatusSent {
		return shared.ErrInvalidState
	}

	m.Status = MessageStatusDelivered
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}
