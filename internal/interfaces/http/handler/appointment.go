package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcrm "github.com/dealercrm/backend/internal/application/crm"
	"github.com/dealercrm/backend/internal/domain/crm"
)

// AppointmentHandler handles appointment HTTP requests
type AppointmentHandler struct {
	BaseHandler
	service *appcrm.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service *appcrm.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// ScheduleAppointmentRequest books a showroom visit
type ScheduleAppointmentRequest struct {
	LeadID      string    `json:"lead_id" binding:"required,uuid"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes" binding:"omitempty,max=2000"`
}

// RescheduleAppointmentRequest moves an appointment
type RescheduleAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// Schedule handles POST /appointments
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	var req ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	appt, err := h.service.ScheduleAppointment(c.Request.Context(), appcrm.ScheduleAppointmentInput{
		DealershipID: dealershipID,
		LeadID:       leadID,
		ScheduledAt:  req.ScheduledAt,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, appointmentResponse(appt))
}

// Confirm handles POST /appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.outcome(c, h.service.ConfirmAppointment)
}

// MarkShowed handles POST /appointments/:id/showed
func (h *AppointmentHandler) MarkShowed(c *gin.Context) {
	h.outcome(c, h.service.MarkShowed)
}

// MarkNoShow handles POST /appointments/:id/no-show
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.outcome(c, h.service.MarkNoShow)
}

// Cancel handles POST /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.outcome(c, h.service.CancelAppointment)
}

// Reschedule handles PUT /appointments/:id/schedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	dealershipID, apptID, ok := h.apptScope(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	appt, err := h.service.RescheduleAppointment(c.Request.Context(), appcrm.RescheduleAppointmentInput{
		DealershipID:  dealershipID,
		AppointmentID: apptID,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointmentResponse(appt))
}

// ListForLead handles GET /leads/:id/appointments
func (h *AppointmentHandler) ListForLead(c *gin.Context) {
	dealershipID, leadID, ok := h.apptScope(c)
	if !ok {
		return
	}

	appts, err := h.service.ListLeadAppointments(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointmentResponses(appts))
}

// ListUpcoming handles GET /appointments/upcoming
func (h *AppointmentHandler) ListUpcoming(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}

	days := 7
	if v, ok := c.GetQuery("days"); ok {
		if parsed, err := time.ParseDuration(v + "h"); err == nil && parsed > 0 {
			days = int(parsed.Hours())
		}
	}

	now := time.Now()
	appts, err := h.service.ListUpcomingAppointments(c.Request.Context(), dealershipID, now, now.AddDate(0, 0, days))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointmentResponses(appts))
}

// outcome runs one of the status transition operations on the :id appointment
func (h *AppointmentHandler) outcome(c *gin.Context, op func(ctx context.Context, dealershipID, apptID uuid.UUID) (*crm.Appointment, error)) {
	dealershipID, apptID, ok := h.apptScope(c)
	if !ok {
		return
	}

	appt, err := op(c.Request.Context(), dealershipID, apptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointmentResponse(appt))
}

// apptScope resolves the dealership context and the :id path parameter
func (h *AppointmentHandler) apptScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}

	return dealershipID, id, true
}
