package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/sms"
)

// MessageService handles the communication timeline on leads
type MessageService struct {
	repo      crm.MessageRepository
	leadRepo  crm.LeadRepository
	eventLog  audit.EventLogRepository
	smsSender sms.Sender
	logger    *zap.Logger
}

// NewMessageService creates a new message service
func NewMessageService(
	repo crm.MessageRepository,
	leadRepo crm.LeadRepository,
	eventLog audit.EventLogRepository,
	smsSender sms.Sender,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		repo:      repo,
		leadRepo:  leadRepo,
		eventLog:  eventLog,
		smsSender: smsSender,
		logger:    logger,
	}
}

// SendMessage records an outbound message and hands SMS bodies to the
// provider. The message row is written before the send so a provider
// failure still leaves a FAILED entry on the timeline.
func (s *MessageService) SendMessage(ctx context.Context, input SendMessageInput) (*crm.Message, error) {
	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	to := input.To
	if to == "" {
		switch input.Channel {
		case crm.MessageChannelSMS, crm.MessageChannelCall:
			to = lead.Phone
		case crm.MessageChannelEmail:
			to = lead.Email
		}
	}
	if input.Channel == crm.MessageChannelSMS && to == "" {
		return nil, shared.NewDomainError("NO_PHONE", "Lead has no phone number for SMS")
	}

	msg, err := crm.NewOutboundMessage(input.DealershipID, input.LeadID, input.Channel, input.Body, input.SentBy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to create message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record message")
	}

	if input.Channel == crm.MessageChannelSMS {
		s.dispatchSMS(ctx, msg, to, input.From)
	} else {
		// Non-SMS channels have no provider hop, the log entry is the send
		if err := msg.MarkSent(""); err == nil {
			if err := s.repo.Update(ctx, msg); err != nil {
				s.logger.Warn("Failed to mark message sent", zap.Error(err))
			}
		}
	}

	s.touchLeadAfterMessage(ctx, lead)

	persistEvents(ctx, s.eventLog, s.logger, msg)
	persistEvents(ctx, s.eventLog, s.logger, lead)

	s.logger.Info("Message sent",
		zap.String("message_id", msg.ID.String()),
		zap.String("lead_id", input.LeadID.String()),
		zap.String("channel", string(input.Channel)),
		zap.String("status", string(msg.Status)))

	return msg, nil
}

// RecordInboundMessage logs a message received from a shopper
func (s *MessageService) RecordInboundMessage(ctx context.Context, input RecordInboundMessageInput) (*crm.Message, error) {
	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	msg, err := crm.NewInboundMessage(input.DealershipID, input.LeadID, input.Channel, input.Body, input.ExternalID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to record inbound message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record message")
	}

	lead.TouchActivity(time.Now())
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		s.logger.Warn("Failed to touch lead after inbound message", zap.Error(err))
	}

	persistEvents(ctx, s.eventLog, s.logger, msg)

	s.logger.Info("Inbound message recorded",
		zap.String("message_id", msg.ID.String()),
		zap.String("lead_id", input.LeadID.String()),
		zap.String("channel", string(input.Channel)))

	return msg, nil
}

// ListLeadMessages returns the message timeline for a lead, newest first
func (s *MessageService) ListLeadMessages(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Message, error) {
	msgs, err := s.repo.FindByLead(ctx, dealershipID, leadID)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list messages")
	}
	return msgs, nil
}

// dispatchSMS hands the body to the provider and records the outcome.
// Provider failures do not fail the operation, the message stays on the
// timeline as FAILED.
func (s *MessageService) dispatchSMS(ctx context.Context, msg *crm.Message, to, from string) {
	result, err := s.smsSender.Send(ctx, to, from, msg.Body)
	if err != nil || !result.Accepted {
		reason := "provider rejected the message"
		if err != nil {
			reason = err.Error()
		} else if result.Detail != "" {
			reason = result.Detail
		}
		s.logger.Warn("SMS send failed",
			zap.String("message_id", msg.ID.String()),
			zap.String("reason", reason))
		if err := msg.MarkFailed(reason); err == nil {
			if err := s.repo.Update(ctx, msg); err != nil {
				s.logger.Warn("Failed to mark message failed", zap.Error(err))
			}
		}
		return
	}

	if err := msg.MarkSent(result.ExternalID); err == nil {
		if err := s.repo.Update(ctx, msg); err != nil {
			s.logger.Warn("Failed to mark message sent", zap.Error(err))
		}
	}
}

// touchLeadAfterMessage advances a NEW lead to CONTACTED on first outreach
// and records the activity.
func (s *MessageService) touchLeadAfterMessage(ctx context.Context, lead *crm.Lead) {
	if lead.Status == crm.LeadStatusNew && lead.CanTransitionTo(crm.LeadStatusContacted) {
		if err := lead.TransitionTo(crm.LeadStatusContacted); err != nil {
			s.logger.Warn("Failed to advance lead to contacted", zap.Error(err))
		}
	}
	lead.TouchActivity(time.Now())
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		s.logger.Warn("Failed to touch lead after message", zap.Error(err))
	}
}
