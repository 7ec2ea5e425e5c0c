package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/domain/crm"
)

// CreateLeadRequest represents a manually entered lead
type CreateLeadRequest struct {
	FirstName       string `json:"first_name" binding:"omitempty,max=100"`
	LastName        string `json:"last_name" binding:"omitempty,max=100"`
	Email           string `json:"email" binding:"omitempty,email"`
	Phone           string `json:"phone" binding:"omitempty,max=32"`
	Source          string `json:"source" binding:"required,oneof=WALK_IN PHONE WEB CSV_IMPORT THIRD_PARTY"`
	SourceDetail    string `json:"source_detail" binding:"omitempty,max=200"`
	LeadType        string `json:"lead_type" binding:"omitempty,oneof=GENERAL SALES SERVICE TRADE_IN FINANCE"`
	VehicleInterest string `json:"vehicle_interest" binding:"omitempty,max=500"`
	TradeIn         string `json:"trade_in" binding:"omitempty,max=500"`
	Notes           string `json:"notes" binding:"omitempty,max=4000"`
}

// UpdateLeadRequest represents editable lead fields
type UpdateLeadRequest struct {
	Email           string `json:"email" binding:"omitempty,email"`
	Phone           string `json:"phone" binding:"omitempty,max=32"`
	VehicleInterest string `json:"vehicle_interest" binding:"omitempty,max=500"`
	TradeIn         string `json:"trade_in" binding:"omitempty,max=500"`
	Notes           string `json:"notes" binding:"omitempty,max=4000"`
}

// TransitionLeadRequest moves a lead along the pipeline
type TransitionLeadRequest struct {
	Status string `json:"status" binding:"required"`
}

// MarkLostRequest closes a lead as lost
type MarkLostRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// AssignLeadRequest assigns a lead to a user
type AssignLeadRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// OverrideScoreRequest pins a manual score on a lead
type OverrideScoreRequest struct {
	Score int `json:"score" binding:"min=0,max=100"`
}

// ListLeadsRequest represents lead list query parameters
type ListLeadsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=NEW CONTACTED QUALIFIED APPOINTMENT_SET NEGOTIATING SOLD LOST"`
	Source   string `form:"source" binding:"omitempty,oneof=WALK_IN PHONE WEB CSV_IMPORT THIRD_PARTY"`
	Assignee string `form:"assignee" binding:"omitempty,uuid"`
}

// LeadResponse is the lead representation returned by the API
type LeadResponse struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Source          string     `json:"source"`
	SourceDetail    string     `json:"source_detail,omitempty"`
	LeadType        string     `json:"lead_type"`
	Status          string     `json:"status"`
	VehicleInterest string     `json:"vehicle_interest,omitempty"`
	TradeIn         string     `json:"trade_in,omitempty"`
	AssignedTo      *uuid.UUID `json:"assigned_to,omitempty"`
	Score           int        `json:"score"`
	ScoreUpdatedAt  *time.Time `json:"score_updated_at,omitempty"`
	ScoreOverride   *int       `json:"score_override,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	SoldAt          *time.Time `json:"sold_at,omitempty"`
	LostReason      string     `json:"lost_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func leadResponse(lead *crm.Lead) LeadResponse {
	return LeadResponse{
		ID:              lead.ID,
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Source:          string(lead.Source),
		SourceDetail:    lead.SourceDetail,
		LeadType:        string(lead.Type),
		Status:          string(lead.Status),
		VehicleInterest: lead.VehicleInterest,
		TradeIn:         lead.TradeIn,
		AssignedTo:      lead.AssignedTo,
		Score:           lead.Score,
		ScoreUpdatedAt:  lead.ScoreUpdatedAt,
		ScoreOverride:   lead.ScoreOverride,
		Notes:           lead.Notes,
		LastActivityAt:  lead.LastActivityAt,
		SoldAt:          lead.SoldAt,
		LostReason:      lead.LostReason,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

func leadResponses(leads []*crm.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, leadResponse(lead))
	}
	return out
}

// AppointmentResponse is the appointment representation returned by the API
type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"lead_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func appointmentResponse(appt *crm.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          appt.ID,
		LeadID:      appt.LeadID,
		ScheduledAt: appt.ScheduledAt,
		Status:      string(appt.Status),
		Notes:       appt.Notes,
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}
}

func appointmentResponses(appts []*crm.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, appointmentResponse(appt))
	}
	return out
}

// TaskResponse is the follow-up task representation returned by the API
type TaskResponse struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     uuid.UUID  `json:"lead_id"`
	Title      string     `json:"title"`
	Detail     string     `json:"detail,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	Status     string     `json:"status"`
	DoneAt     *time.Time `json:"done_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func taskResponse(task *crm.Task) TaskResponse {
	return TaskResponse{
		ID:         task.ID,
		LeadID:     task.LeadID,
		Title:      task.Title,
		Detail:     task.Detail,
		DueAt:      task.DueAt,
		AssignedTo: task.AssignedTo,
		Status:     string(task.Status),
		DoneAt:     task.DoneAt,
		CreatedAt:  task.CreatedAt,
	}
}

func taskResponses(tasks []*crm.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskResponse(task))
	}
	return out
}

// MessageResponse is the message representation returned by the API
type MessageResponse struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     uuid.UUID  `json:"lead_id"`
	Channel    string     `json:"channel"`
	Direction  string     `json:"direction"`
	Status     string     `json:"status"`
	Body       string     `json:"body"`
	SentBy     *uuid.UUID `json:"sent_by,omitempty"`
	ExternalID string     `json:"external_id,omitempty"`
	FailReason string     `json:"fail_reason,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func messageResponse(msg *crm.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		LeadID:     msg.LeadID,
		Channel:    string(msg.Channel),
		Direction:  string(msg.Direction),
		Status:     string(msg.Status),
		Body:       msg.Body,
		SentBy:     msg.SentBy,
		ExternalID: msg.ExternalID,
		FailReason: msg.FailReason,
		CreatedAt:  msg.CreatedAt,
	}
}

func messageResponses(msgs []*crm.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, messageResponse(msg))
	}
	return out
}
