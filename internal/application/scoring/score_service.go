// Package scoring recomputes lead scores from the lead row and its
// relations. The arithmetic lives in the domain engine; this service only
// assembles the snapshot and stores the result.
package scoring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/scoring"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/telemetry"
)

// ScoreService recomputes and explains lead scores
type ScoreService struct {
	leadRepo crm.LeadRepository
	msgRepo  crm.MessageRepository
	apptRepo crm.AppointmentRepository
	logger   *zap.Logger
}

// NewScoreService creates a new score service
func NewScoreService(
	leadRepo crm.LeadRepository,
	msgRepo crm.MessageRepository,
	apptRepo crm.AppointmentRepository,
	logger *zap.Logger,
) *ScoreService {
	return &ScoreService{
		leadRepo: leadRepo,
		msgRepo:  msgRepo,
		apptRepo: apptRepo,
		logger:   logger,
	}
}

// Recompute rebuilds a lead's score from current facts and stores it. A
// manual override wins: the computed value is returned for inspection but
// the stored score keeps the override. SOLD leads score the maximum without
// touching the lead's relations.
func (s *ScoreService) Recompute(ctx context.Context, dealershipID, leadID uuid.UUID) (*scoring.Breakdown, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "score", "recompute")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDealershipID, dealershipID.String(),
		telemetry.SpanAttrLeadID, leadID.String())

	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	breakdown, err := s.compute(ctx, lead)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLeadScore, breakdown.Total)

	if lead.ScoreOverride != nil {
		s.logger.Info("Lead score recomputed, override kept",
			zap.String("lead_id", leadID.String()),
			zap.Int("computed", breakdown.Total),
			zap.Int("override", *lead.ScoreOverride))
		return breakdown, nil
	}

	// Stored even when the value is unchanged so ScoreUpdatedAt always
	// reflects the latest recompute.
	lead.SetScore(breakdown.Total)
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Lead was modified by another request, retry")
		}
		s.logger.Error("Failed to store lead score", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store lead score")
	}

	s.logger.Info("Lead score recomputed",
		zap.String("lead_id", leadID.String()),
		zap.Int("score", breakdown.Total))

	return breakdown, nil
}

// Explain computes the score without storing anything
func (s *ScoreService) Explain(ctx context.Context, dealershipID, leadID uuid.UUID) (*scoring.Breakdown, error) {
	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}
	return s.compute(ctx, lead)
}

func (s *ScoreService) compute(ctx context.Context, lead *crm.Lead) (*scoring.Breakdown, error) {
	now := time.Now()

	// SOLD is absorbing and always scores the maximum, no relations needed
	if lead.Status == crm.LeadStatusSold {
		b := scoring.Compute(scoring.Input{Status: crm.LeadStatusSold, Now: now})
		return &b, nil
	}

	in := scoring.Input{
		Status:          lead.Status,
		Email:           lead.Email,
		Phone:           lead.Phone,
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		VehicleInterest: lead.VehicleInterest,
		LastActivityAt:  lead.LastActivityAt,
		Now:             now,
	}

	msgs, err := s.msgRepo.FindByLead(ctx, lead.DealershipID, lead.ID)
	if err != nil {
		s.logger.Error("Failed to load messages for scoring", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to score lead")
	}
	for _, msg := range msgs {
		if msg.Channel == crm.MessageChannelCall {
			in.CallsLogged++
			in.ContactAttempts++
			continue
		}
		switch msg.Direction {
		case crm.MessageDirectionOutbound:
			in.OutboundMessages++
			in.ContactAttempts++
		case crm.MessageDirectionInbound:
			in.InboundMessages++
		}
	}

	appts, err := s.apptRepo.FindByLead(ctx, lead.DealershipID, lead.ID)
	if err != nil {
		s.logger.Error("Failed to load appointments for scoring", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to score lead")
	}
	for _, appt := range appts {
		switch appt.Status {
		case crm.AppointmentStatusShowed:
			in.HasShowedAppointment = true
		case crm.AppointmentStatusNoShow:
			in.HadNoShow = true
		case crm.AppointmentStatusSet, crm.AppointmentStatusConfirmed:
			if appt.IsUpcoming(now) {
				in.HasUpcomingAppointment = true
			}
		}
	}

	b := scoring.Compute(in)
	return &b, nil
}
