package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/telemetry"
)

// LeadService handles the lead pipeline
type LeadService struct {
	leadRepo crm.LeadRepository
	eventLog audit.EventLogRepository
	logger   *zap.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(leadRepo crm.LeadRepository, eventLog audit.EventLogRepository, logger *zap.Logger) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		eventLog: eventLog,
		logger:   logger,
	}
}

// CreateLead creates a manually entered lead
func (s *LeadService) CreateLead(ctx context.Context, input CreateLeadInput) (*crm.Lead, error) {
	lead, err := crm.NewLead(input.DealershipID, input.FirstName, input.LastName, input.Email, input.Phone, input.Source)
	if err != nil {
		return nil, err
	}

	lead.SourceDetail = input.SourceDetail
	lead.Notes = input.Notes
	lead.SetCreatedBy(input.CreatedBy)
	if input.Type != "" {
		if err := lead.SetType(input.Type); err != nil {
			return nil, err
		}
	}
	if input.VehicleInterest != "" {
		lead.SetVehicleInterest(input.VehicleInterest)
	}
	if input.TradeIn != "" {
		lead.SetTradeIn(input.TradeIn)
	}
	lead.TouchActivity(time.Now())

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		s.logger.Error("Failed to create lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create lead")
	}

	persistEvents(ctx, s.eventLog, s.logger, lead)

	s.logger.Info("Lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("dealership_id", input.DealershipID.String()),
		zap.String("source", string(lead.Source)))

	return lead, nil
}

// GetLead retrieves a lead within a dealership
func (s *LeadService) GetLead(ctx context.Context, dealershipID, leadID uuid.UUID) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}
	return lead, nil
}

// ListLeads returns one page of leads matching the filter
func (s *LeadService) ListLeads(ctx context.Context, dealershipID uuid.UUID, filter crm.LeadFilter) (*ListLeadsResult, error) {
	leads, total, err := s.leadRepo.FindAll(ctx, dealershipID, filter)
	if err != nil {
		s.logger.Error("Failed to list leads", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}

	return &ListLeadsResult{
		Leads:    leads,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// UpdateLead updates editable fields on a lead
func (s *LeadService) UpdateLead(ctx context.Context, input UpdateLeadInput) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	if err := lead.UpdateContact(input.Email, input.Phone); err != nil {
		return nil, err
	}
	lead.SetVehicleInterest(input.VehicleInterest)
	lead.SetTradeIn(input.TradeIn)
	lead.Notes = input.Notes

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	return lead, nil
}

// TransitionLead moves a lead to the target pipeline status
func (s *LeadService) TransitionLead(ctx context.Context, input TransitionLeadInput) (*crm.Lead, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lead", "transition")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDealershipID, input.DealershipID.String(),
		telemetry.SpanAttrLeadID, input.LeadID.String(),
		telemetry.SpanAttrLeadStatus, string(input.Target))

	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	if err := lead.TransitionTo(input.Target); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	lead.TouchActivity(time.Now())

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	persistEvents(ctx, s.eventLog, s.logger, lead)

	s.logger.Info("Lead transitioned",
		zap.String("lead_id", lead.ID.String()),
		zap.String("status", string(lead.Status)))

	return lead, nil
}

// MarkLeadLost closes a lead as lost with a reason
func (s *LeadService) MarkLeadLost(ctx context.Context, input MarkLostInput) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	if err := lead.MarkLost(input.Reason); err != nil {
		return nil, err
	}
	lead.TouchActivity(time.Now())

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	persistEvents(ctx, s.eventLog, s.logger, lead)

	s.logger.Info("Lead marked lost",
		zap.String("lead_id", lead.ID.String()),
		zap.String("reason", input.Reason))

	return lead, nil
}

// AssignLead assigns a lead to a user
func (s *LeadService) AssignLead(ctx context.Context, input AssignLeadInput) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	if err := lead.AssignTo(input.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	persistEvents(ctx, s.eventLog, s.logger, lead)

	s.logger.Info("Lead assigned",
		zap.String("lead_id", lead.ID.String()),
		zap.String("assignee_id", input.AssigneeID.String()))

	return lead, nil
}

// UnassignLead removes the current assignee from a lead
func (s *LeadService) UnassignLead(ctx context.Context, dealershipID, leadID uuid.UUID) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	lead.Unassign()

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	return lead, nil
}

// OverrideLeadScore pins a lead's score to a manual value
func (s *LeadService) OverrideLeadScore(ctx context.Context, dealershipID, leadID uuid.UUID, score int) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	if err := lead.OverrideScore(score); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	s.logger.Info("Lead score overridden",
		zap.String("lead_id", lead.ID.String()),
		zap.Int("score", score))

	return lead, nil
}

// ClearLeadScoreOverride removes a manual score pin
func (s *LeadService) ClearLeadScoreOverride(ctx context.Context, dealershipID, leadID uuid.UUID) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	lead.ClearScoreOverride()

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, s.mapUpdateError(err)
	}

	return lead, nil
}

func (s *LeadService) mapUpdateError(err error) error {
	if err == shared.ErrConcurrencyConflict {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Lead was modified by another request, retry")
	}
	s.logger.Error("Failed to update lead", zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", "Failed to update lead")
}
