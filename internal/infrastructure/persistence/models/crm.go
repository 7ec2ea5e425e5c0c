package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/domain/crm"
)

// LeadModel is the persistence model for leads
type LeadModel struct {
	DealershipAggregateModel
	FirstName       string     `gorm:"type:varchar(100)"`
	LastName        string     `gorm:"type:varchar(100)"`
	Email           string     `gorm:"type:varchar(255);index"`
	Phone           string     `gorm:"type:varchar(30);index"`
	Source          string     `gorm:"type:varchar(30);not null"`
	SourceDetail    string     `gorm:"type:varchar(100)"`
	LeadType        string     `gorm:"type:varchar(30);not null;default:GENERAL"`
	Status          string     `gorm:"type:varchar(30);not null;index"`
	VehicleInterest string     `gorm:"type:varchar(255)"`
	TradeIn         string     `gorm:"type:varchar(255)"`
	AssignedTo      *uuid.UUID `gorm:"type:uuid;index"`
	Score           int        `gorm:"not null;default:0"`
	ScoreUpdatedAt  *time.Time
	ScoreOverride   *int
	Notes           string `gorm:"type:text"`
	LastActivityAt  *time.Time
	SoldAt          *time.Time
	LostReason      string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for LeadModel
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts LeadModel to a domain Lead
func (m *LeadModel) ToDomain() *crm.Lead {
	lead := &crm.Lead{
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		Phone:           m.Phone,
		Source:          crm.LeadSource(m.Source),
		SourceDetail:    m.SourceDetail,
		Type:            crm.LeadType(m.LeadType),
		Status:          crm.LeadStatus(m.Status),
		VehicleInterest: m.VehicleInterest,
		TradeIn:         m.TradeIn,
		AssignedTo:      m.AssignedTo,
		Score:           m.Score,
		ScoreUpdatedAt:  m.ScoreUpdatedAt,
		ScoreOverride:   m.ScoreOverride,
		Notes:           m.Notes,
		LastActivityAt:  m.LastActivityAt,
		SoldAt:          m.SoldAt,
		LostReason:      m.LostReason,
	}
	m.PopulateDealershipAggregateRoot(&lead.DealershipAggregateRoot)
	return lead
}

// LeadModelFromDomain converts a domain Lead to LeadModel
func LeadModelFromDomain(lead *crm.Lead) *LeadModel {
	model := &LeadModel{
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
	}
	model.FromDomainDealershipAggregateRoot(lead.DealershipAggregateRoot)
	return model
}

// AppointmentModel is the persistence model for appointments
type AppointmentModel struct {
	DealershipAggregateModel
	LeadID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ScheduledAt time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(20);not null"`
	Notes       string    `gorm:"type:text"`
}

// TableName returns the table name for AppointmentModel
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts AppointmentModel to a domain Appointment
func (m *AppointmentModel) ToDomain() *crm.Appointment {
	appt := &crm.Appointment{
		LeadID:      m.LeadID,
		ScheduledAt: m.ScheduledAt,
		Status:      crm.AppointmentStatus(m.Status),
		Notes:       m.Notes,
	}
	m.PopulateDealershipAggregateRoot(&appt.DealershipAggregateRoot)
	return appt
}

// AppointmentModelFromDomain converts a domain Appointment to AppointmentModel
func AppointmentModelFromDomain(appt *crm.Appointment) *AppointmentModel {
	model := &AppointmentModel{
		LeadID:      appt.LeadID,
		ScheduledAt: appt.ScheduledAt,
		Status:      string(appt.Status),
		Notes:       appt.Notes,
	}
	model.FromDomainDealershipAggregateRoot(appt.DealershipAggregateRoot)
	return model
}

// TaskModel is the persistence model for follow-up tasks
type TaskModel struct {
	DealershipAggregateModel
	LeadID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Detail     string    `gorm:"type:text"`
	DueAt      *time.Time
	AssignedTo *uuid.UUID `gorm:"type:uuid;index"`
	Status     string     `gorm:"type:varchar(20);not null"`
	DoneAt     *time.Time
}

// TableName returns the table name for TaskModel
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts TaskModel to a domain Task
func (m *TaskModel) ToDomain() *crm.Task {
	task := &crm.Task{
		LeadID:     m.LeadID,
		Title:      m.Title,
		Detail:     m.Detail,
		DueAt:      m.DueAt,
		AssignedTo: m.AssignedTo,
		Status:     crm.TaskStatus(m.Status),
		DoneAt:     m.DoneAt,
	}
	m.PopulateDealershipAggregateRoot(&task.DealershipAggregateRoot)
	return task
}

// TaskModelFromDomain converts a domain Task to TaskModel
func TaskModelFromDomain(task *crm.Task) *TaskModel {
	model := &TaskModel{
		LeadID:     task.LeadID,
		Title:      task.Title,
		Detail:     task.Detail,
		DueAt:      task.DueAt,
		AssignedTo: task.AssignedTo,
		Status:     string(task.Status),
		DoneAt:     task.DoneAt,
	}
	model.FromDomainDealershipAggregateRoot(task.DealershipAggregateRoot)
	return model
}

// MessageModel is the persistence model for messages
type MessageModel struct {
	DealershipAggregateModel
	LeadID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Channel    string     `gorm:"type:varchar(10);not null"`
	Direction  string     `gorm:"type:varchar(10);not null"`
	Status     string     `gorm:"type:varchar(20);not null"`
	Body       string     `gorm:"type:text;not null"`
	SentBy     *uuid.UUID `gorm:"type:uuid"`
	ExternalID string     `gorm:"type:varchar(100);index"`
	FailReason string     `gorm:"type:varchar(255)"`
}

// TableName returns the table name for MessageModel
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts MessageModel to a domain Message
func (m *MessageModel) ToDomain() *crm.Message {
	msg := &crm.Message{
		LeadID:     m.LeadID,
		Channel:    crm.MessageChannel(m.Channel),
		Direction:  crm.MessageDirection(m.Direction),
		Status:     crm.MessageStatus(m.Status),
		Body:       m.Body,
		SentBy:     m.SentBy,
		ExternalID: m.ExternalID,
		FailReason: m.FailReason,
	}
	m.PopulateDealershipAggregateRoot(&msg.DealershipAggregateRoot)
	return msg
}

// MessageModelFromDomain converts a domain Message to MessageModel
func MessageModelFromDomain(msg *crm.Message) *MessageModel {
	model := &MessageModel{
		LeadID:     msg.LeadID,
		Channel:    string(msg.Channel),
		Direction:  string(msg.Direction),
		Status:     string(msg.Status),
		Body:       msg.Body,
		SentBy:     msg.SentBy,
		ExternalID: msg.ExternalID,
		FailReason: msg.FailReason,
	}
	model.FromDomainDealershipAggregateRoot(msg.DealershipAggregateRoot)
	return model
}
