// Package advisor is the rules-based advisory layer. It derives next-step
// suggestions from a lead's current state and hands heavier analysis to a
// background worker over the job queue. Everything that leaves the process
// boundary goes through the redaction filter first.
package advisor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/queue"
	"github.com/dealercrm/backend/internal/infrastructure/redact"
)

// JobTypeLeadAdvice is the queue job type for background lead analysis
const JobTypeLeadAdvice = "advisor.lead_advice"

const staleAfter = 72 * time.Hour

// Suggestion is one recommended next step on a lead
type Suggestion struct {
	Code   string `json:"code"`
	Advice string `json:"advice"`
}

// AdvisorService derives next-step suggestions for leads
type AdvisorService struct {
	leadRepo crm.LeadRepository
	apptRepo crm.AppointmentRepository
	msgRepo  crm.MessageRepository
	enqueuer queue.Enqueuer
	logger   *zap.Logger
}

// NewAdvisorService creates a new advisor service. The enqueuer is a
// required collaborator, not lazily constructed on first use.
func NewAdvisorService(
	leadRepo crm.LeadRepository,
	apptRepo crm.AppointmentRepository,
	msgRepo crm.MessageRepository,
	enqueuer queue.Enqueuer,
	logger *zap.Logger,
) *AdvisorService {
	return &AdvisorService{
		leadRepo: leadRepo,
		apptRepo: apptRepo,
		msgRepo:  msgRepo,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// Suggest returns rule-derived next steps for a lead and queues a background
// analysis job. The enqueue is fire-and-forget: its failure is logged and
// never fails the request.
func (s *AdvisorService) Suggest(ctx context.Context, dealershipID, leadID uuid.UUID) ([]Suggestion, error) {
	lead, err := s.leadRepo.FindByID(ctx, dealershipID, leadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}

	outbound, inbound, err := s.msgRepo.CountByLead(ctx, dealershipID, leadID)
	if err != nil {
		s.logger.Error("Failed to count messages for advice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build advice")
	}

	now := time.Now()
	appts, err := s.apptRepo.FindUpcoming(ctx, dealershipID, now, now.Add(14*24*time.Hour))
	if err != nil {
		s.logger.Error("Failed to load appointments for advice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build advice")
	}
	hasUpcoming := false
	for _, appt := range appts {
		if appt.LeadID == leadID {
			hasUpcoming = true
			break
		}
	}

	suggestions := s.applyRules(lead, outbound, inbound, hasUpcoming, now)

	s.enqueueAnalysis(ctx, lead, suggestions)

	return suggestions, nil
}

// applyRules is the deterministic rule table. Rules read only the supplied
// facts so the same lead state always yields the same advice.
func (s *AdvisorService) applyRules(lead *crm.Lead, outbound, inbound int64, hasUpcoming bool, now time.Time) []Suggestion {
	var out []Suggestion

	if lead.IsTerminal() {
		return []Suggestion{{
			Code:   "CLOSED",
			Advice: "Lead is closed, no further action",
		}}
	}

	if lead.AssignedTo == nil {
		out = append(out, Suggestion{
			Code:   "ASSIGN",
			Advice: "Assign the lead to a salesperson",
		})
	}

	if outbound == 0 {
		out = append(out, Suggestion{
			Code:   "FIRST_TOUCH",
			Advice: "No outreach yet, send a first message or call",
		})
	} else if inbound == 0 && outbound >= 3 {
		out = append(out, Suggestion{
			Code:   "CHANGE_CHANNEL",
			Advice: "No reply after several attempts, try a different channel",
		})
	}

	if inbound > 0 && !hasUpcoming && lead.Status != crm.LeadStatusAppointmentSet {
		out = append(out, Suggestion{
			Code:   "BOOK_APPOINTMENT",
			Advice: "Shopper is responding, propose a showroom visit",
		})
	}

	if lead.LastActivityAt != nil && now.Sub(*lead.LastActivityAt) > staleAfter {
		out = append(out, Suggestion{
			Code:   "GOING_COLD",
			Advice: "No activity for several days, follow up today",
		})
	}

	if lead.TradeIn != "" && lead.Status == crm.LeadStatusNegotiating {
		out = append(out, Suggestion{
			Code:   "TRADE_IN_APPRAISAL",
			Advice: "Negotiation with a trade-in, schedule an appraisal",
		})
	}

	if len(out) == 0 {
		out = append(out, Suggestion{
			Code:   "KEEP_GOING",
			Advice: "Lead is progressing, keep the current cadence",
		})
	}

	return out
}

// enqueueAnalysis queues a background analysis job. The payload is redacted
// before it leaves the process; raw contact fields never reach the queue.
func (s *AdvisorService) enqueueAnalysis(ctx context.Context, lead *crm.Lead, suggestions []Suggestion) {
	codes := make([]interface{}, 0, len(suggestions))
	for _, sg := range suggestions {
		codes = append(codes, sg.Code)
	}

	payload := map[string]interface{}{
		"dealership_id":    lead.DealershipID.String(),
		"lead_id":          lead.ID.String(),
		"initials":         redact.Initials(lead.FirstName, lead.LastName),
		"status":           string(lead.Status),
		"source":           string(lead.Source),
		"score":            lead.Score,
		"suggestions":      codes,
		"email":            lead.Email,
		"phone":            lead.Phone,
		"vehicle_interest": lead.VehicleInterest,
		"notes":            lead.Notes,
	}

	redacted, ok := redact.Value(payload).(map[string]interface{})
	if !ok {
		s.logger.Error("Redaction returned unexpected shape, job dropped",
			zap.String("lead_id", lead.ID.String()))
		return
	}

	job := queue.NewJob(JobTypeLeadAdvice, redacted)
	if err := s.enqueuer.Enqueue(ctx, job); err != nil {
		s.logger.Warn("Failed to enqueue advisor job",
			zap.String("lead_id", lead.ID.String()),
			zap.Error(err))
	}
}
