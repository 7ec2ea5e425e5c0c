package crm

import (
	"strings"
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle of a showroom appointment
type AppointmentStatus string

const (
	AppointmentStatusSet       AppointmentStatus = "SET"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusShowed    AppointmentStatus = "SHOWED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
	AppointmentStatusCanceled  AppointmentStatus = "CANCELED"
)

// Appointment is a scheduled showroom visit for a lead
type Appointment struct {
	shared.DealershipAggregateRoot
	LeadID      uuid.UUID
	ScheduledAt time.Time
	Status      AppointmentStatus
	Notes       string
}

// NewAppointment schedules a new appointment for a lead
func NewAppointment(dealershipID, leadID uuid.UUID, scheduledAt time.Time) (*Appointment, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_TIME", "Appointment time cannot be empty")
	}

	appt := &Appointment{
		DealershipAggregateRoot: shared.NewDealershipAggregateRoot(dealershipID),
		LeadID:                  leadID,
		ScheduledAt:             scheduledAt,
		Status:                  AppointmentStatusSet,
	}

	appt.AddDomainEvent(NewAppointmentScheduledEvent(appt))

	return appt, nil
}

// Confirm marks a SET appointment as confirmed by the shopper
func (a *Appointment) Confirm() error {
	if a.Status != AppointmentStatusSet {
		return shared.ErrInvalidState
	}

	a.Status = AppointmentStatusConfirmed
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// MarkShowed records that the shopper showed up
func (a *Appointment) MarkShowed() error {
	if a.Status != AppointmentStatusSet && a.Status != AppointmentStatusConfirmed {
		return shared.ErrInvalidState
	}

	a.Status = AppointmentStatusShowed
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAppointmentOutcomeEvent(a))

	return nil
}

// MarkNoShow records that the shopper did not show up
func (a *Appointment) MarkNoShow() error {
	if a.Status != AppointmentStatusSet && a.Status != AppointmentStatusConfirmed {
		return shared.ErrInvalidState
	}

	a.Status = AppointmentStatusNoShow
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAppointmentOutcomeEvent(a))

	return nil
}

// Cancel cancels an appointment that has not been resolved yet
func (a *Appointment) Cancel() error {
	if a.Status == AppointmentStatusShowed || a.Status == AppointmentStatusNoShow {
		return shared.ErrInvalidState
	}
	if a.Status == AppointmentStatusCanceled {
		return shared.ErrInvalidState
	}

	a.Status = AppointmentStatusCanceled
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Reschedule moves an unresolved appointment to a new time and resets it to SET
func (a *Appointment) Reschedule(newTime time.Time) error {
	if a.Status == AppointmentStatusShowed || a.Status == AppointmentStatusNoShow {
		return shared.ErrInvalidState
	}
	if newTime.IsZero() {
		return shared.NewDomainError("INVALID_TIME", "Appointment time cannot be empty")
	}

	a.ScheduledAt = newTime
	a.Status = AppointmentStatusSet
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the appointment
func (a *Appointment) SetNotes(notes string) {
	a.Notes = strings.TrimSpace(notes)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// IsUpcoming reports whether the appointment is still pending and in the future
func (a *Appointment) IsUpcoming(now time.Time) bool {
	if a.Status != AppointmentStatusSet && a.Status != AppointmentStatusConfirmed {
		return false
	}
	return a.ScheduledAt.After(now)
}
