package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// AppointmentService handles showroom appointments
type AppointmentService struct {
	eventLog audit.EventLogRepository
	repo     crm.AppointmentRepository
	leadRepo crm.LeadRepository
	logger   *zap.Logger
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo crm.AppointmentRepository,
	leadRepo crm.LeadRepository,
	eventLog audit.EventLogRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		leadRepo: leadRepo,
		eventLog: eventLog,
		logger:   logger,
	}
}

// ScheduleAppointment books a visit for a lead. If the pipeline allows it,
// the lead moves to APPOINTMENT_SET as part of the booking.
func (s *AppointmentService) ScheduleAppointment(ctx context.Context, input ScheduleAppointmentInput) (*crm.Appointment, error) {
	lead, err := s.leadRepo.FindByID(ctx, input.DealershipID, input.LeadID)
	if err != nil {
		return nil, shared.NewDomainError("LEAD_NOT_FOUND", "Lead not found")
	}
	if lead.IsTerminal() {
		return nil, shared.NewDomainError("LEAD_CLOSED", "Cannot schedule an appointment on a closed lead")
	}

	appt, err := crm.NewAppointment(input.DealershipID, input.LeadID, input.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if input.Notes != "" {
		appt.SetNotes(input.Notes)
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		s.logger.Error("Failed to create appointment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to schedule appointment")
	}

	if lead.CanTransitionTo(crm.LeadStatusAppointmentSet) {
		if err := lead.TransitionTo(crm.LeadStatusAppointmentSet); err == nil {
			lead.TouchActivity(time.Now())
			if err := s.leadRepo.Update(ctx, lead); err != nil {
				s.logger.Warn("Failed to advance lead after booking", zap.Error(err))
			}
		}
	} else {
		lead.TouchActivity(time.Now())
		if err := s.leadRepo.Update(ctx, lead); err != nil {
			s.logger.Warn("Failed to touch lead after booking", zap.Error(err))
		}
	}

	persistEvents(ctx, s.eventLog, s.logger, appt)
	persistEvents(ctx, s.eventLog, s.logger, lead)

	s.logger.Info("Appointment scheduled",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("lead_id", input.LeadID.String()),
		zap.Time("scheduled_at", input.ScheduledAt))

	return appt, nil
}

// ConfirmAppointment confirms a pending appointment
func (s *AppointmentService) ConfirmAppointment(ctx context.Context, dealershipID, apptID uuid.UUID) (*crm.Appointment, error) {
	return s.updateAppointment(ctx, dealershipID, apptID, func(appt *crm.Appointment) error {
		return appt.Confirm()
	})
}

// MarkShowed records that the shopper came in
func (s *AppointmentService) MarkShowed(ctx context.Context, dealershipID, apptID uuid.UUID) (*crm.Appointment, error) {
	return s.updateAppointment(ctx, dealershipID, apptID, func(appt *crm.Appointment) error {
		return appt.MarkShowed()
	})
}

// MarkNoShow records that the shopper did not come in
func (s *AppointmentService) MarkNoShow(ctx context.Context, dealershipID, apptID uuid.UUID) (*crm.Appointment, error) {
	return s.updateAppointment(ctx, dealershipID, apptID, func(appt *crm.Appointment) error {
		return appt.MarkNoShow()
	})
}

// CancelAppointment cancels an appointment
func (s *AppointmentService) CancelAppointment(ctx context.Context, dealershipID, apptID uuid.UUID) (*crm.Appointment, error) {
	return s.updateAppointment(ctx, dealershipID, apptID, func(appt *crm.Appointment) error {
		return appt.Cancel()
	})
}

// RescheduleAppointment moves an appointment to a new time
func (s *AppointmentService) RescheduleAppointment(ctx context.Context, input RescheduleAppointmentInput) (*crm.Appointment, error) {
	return s.updateAppointment(ctx, input.DealershipID, input.AppointmentID, func(appt *crm.Appointment) error {
		return appt.Reschedule(input.ScheduledAt)
	})
}

// ListLeadAppointments returns all appointments for a lead, newest first
func (s *AppointmentService) ListLeadAppointments(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Appointment, error) {
	appts, err := s.repo.FindByLead(ctx, dealershipID, leadID)
	if err != nil {
		s.logger.Error("Failed to list appointments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list appointments")
	}
	return appts, nil
}

// ListUpcomingAppointments returns pending appointments inside the window
func (s *AppointmentService) ListUpcomingAppointments(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*crm.Appointment, error) {
	appts, err := s.repo.FindUpcoming(ctx, dealershipID, from, to)
	if err != nil {
		s.logger.Error("Failed to list upcoming appointments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list appointments")
	}
	return appts, nil
}

func (s *AppointmentService) updateAppointment(ctx context.Context, dealershipID, apptID uuid.UUID, mutate func(*crm.Appointment) error) (*crm.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, dealershipID, apptID)
	if err != nil {
		return nil, shared.NewDomainError("APPOINTMENT_NOT_FOUND", "Appointment not found")
	}

	if err := mutate(appt); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		s.logger.Error("Failed to update appointment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update appointment")
	}

	persistEvents(ctx, s.eventLog, s.logger, appt)

	return appt, nil
}
