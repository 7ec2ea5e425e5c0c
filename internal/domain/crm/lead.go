package crm

import (
	"strings"
	"time"

	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadStatus represents the position of a lead in the sales pipeline
type LeadStatus string

const (
	LeadStatusNew            LeadStatus = "NEW"
	LeadStatusContacted      LeadStatus = "CONTACTED"
	LeadStatusQualified      LeadStatus = "QUALIFIED"
	LeadStatusAppointmentSet LeadStatus = "APPOINTMENT_SET"
	LeadStatusNegotiating    LeadStatus = "NEGOTIATING"
	LeadStatusSold           LeadStatus = "SOLD"
	LeadStatusLost           LeadStatus = "LOST"
)

// LeadType categorizes what the shopper is after
type LeadType string

const (
	LeadTypeGeneral LeadType = "GENERAL"
	LeadTypeSales   LeadType = "SALES"
	LeadTypeService LeadType = "SERVICE"
	LeadTypeTradeIn LeadType = "TRADE_IN"
	LeadTypeFinance LeadType = "FINANCE"
)

var leadTypes = map[LeadType]bool{
	LeadTypeGeneral: true,
	LeadTypeSales:   true,
	LeadTypeService: true,
	LeadTypeTradeIn: true,
	LeadTypeFinance: true,
}

// ParseLeadType validates a lead type string
func ParseLeadType(s string) (LeadType, error) {
	t := LeadType(s)
	if !leadTypes[t] {
		return "", shared.NewDomainError("INVALID_LEAD_TYPE", "Unknown lead type: "+s)
	}
	return t, nil
}

// LeadSource identifies where a lead came from
type LeadSource string

const (
	LeadSourceWalkIn     LeadSource = "WALK_IN"
	LeadSourcePhone      LeadSource = "PHONE"
	LeadSourceWeb        LeadSource = "WEB"
	LeadSourceCSVImport  LeadSource = "CSV_IMPORT"
	LeadSourceThirdParty LeadSource = "THIRD_PARTY"
)

// allowedTransitions is the forward pipeline. LOST is reachable from any
// non-terminal status and both SOLD and LOST are absorbing.
var allowedTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:            {LeadStatusContacted, LeadStatusLost},
	LeadStatusContacted:      {LeadStatusQualified, LeadStatusLost},
	LeadStatusQualified:      {LeadStatusAppointmentSet, LeadStatusNegotiating, LeadStatusLost},
	LeadStatusAppointmentSet: {LeadStatusNegotiating, LeadStatusSold, LeadStatusLost},
	LeadStatusNegotiating:    {LeadStatusSold, LeadStatusLost},
	LeadStatusSold:           {},
	LeadStatusLost:           {},
}

// ParseLeadStatus validates a lead status string
func ParseLeadStatus(s string) (LeadStatus, error) {
	status := LeadStatus(s)
	if _, ok := allowedTransitions[status]; !ok {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown lead status: "+s)
	}
	return status, nil
}

// Lead is the central CRM aggregate: one shopper's interest in buying a
// vehicle from one dealership.
type Lead struct {
	shared.DealershipAggregateRoot
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Source          LeadSource
	SourceDetail    string // e.g. third-party provider name
	Type            LeadType
	Status          LeadStatus
	VehicleInterest string // Free-form "2022 Honda Civic EX" style description
	TradeIn         string
	AssignedTo      *uuid.UUID // Membership user the lead is assigned to
	Score           int
	ScoreUpdatedAt  *time.Time
	ScoreOverride   *int // Manual score pin set by a manager, wins over computed score
	Notes           string
	LastActivityAt  *time.Time
	SoldAt          *time.Time
	LostReason      string
}

// NewLead creates a new lead in the NEW status. At least one contact channel
// (email or phone) is required.
func NewLead(dealershipID uuid.UUID, firstName, lastName, email, phone string, source LeadSource) (*Lead, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if email == "" && phone == "" {
		return nil, shared.ErrMissingContact
	}

	lead := &Lead{
		DealershipAggregateRoot: shared.NewDealershipAggregateRoot(dealershipID),
		FirstName:               strings.TrimSpace(firstName),
		LastName:                strings.TrimSpace(lastName),
		Email:                   email,
		Phone:                   phone,
		Source:                  source,
		Type:                    LeadTypeGeneral,
		Status:                  LeadStatusNew,
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// CanTransitionTo reports whether the pipeline allows moving to target
func (l *Lead) CanTransitionTo(target LeadStatus) bool {
	for _, next := range allowedTransitions[l.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the lead to the target status, enforcing the pipeline
func (l *Lead) TransitionTo(target LeadStatus) error {
	if _, err := ParseLeadStatus(string(target)); err != nil {
		return err
	}
	if !l.CanTransitionTo(target) {
		return shared.ErrInvalidTransition
	}

	old := l.Status
	l.Status = target
	now := time.Now()
	if target == LeadStatusSold {
		l.SoldAt = &now
	}
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, old, target))

	return nil
}

// MarkLost moves the lead to LOST with a reason, from any non-terminal status
func (l *Lead) MarkLost(reason string) error {
	if l.Status == LeadStatusSold || l.Status == LeadStatusLost {
		return shared.ErrInvalidTransition
	}

	old := l.Status
	l.Status = LeadStatusLost
	l.LostReason = strings.TrimSpace(reason)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, old, LeadStatusLost))

	return nil
}

// AssignTo assigns the lead to a user
func (l *Lead) AssignTo(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER_ID", "Assignee cannot be empty")
	}

	l.AssignedTo = &userID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLeadAssignedEvent(l, userID))

	return nil
}

// Unassign removes the current assignee
func (l *Lead) Unassign() {
	l.AssignedTo = nil
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetType changes the lead's category
func (l *Lead) SetType(t LeadType) error {
	if _, err := ParseLeadType(string(t)); err != nil {
		return err
	}

	l.Type = t
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetVehicleInterest sets the vehicle the shopper is asking about
func (l *Lead) SetVehicleInterest(interest string) {
	l.VehicleInterest = strings.TrimSpace(interest)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetTradeIn sets the trade-in description
func (l *Lead) SetTradeIn(tradeIn string) {
	l.TradeIn = strings.TrimSpace(tradeIn)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// UpdateContact updates the contact channels, keeping the at-least-one rule
func (l *Lead) UpdateContact(email, phone string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if email == "" && phone == "" {
		return shared.ErrMissingContact
	}

	l.Email = email
	l.Phone = phone
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetScore stores the computed score and stamps when it was computed
func (l *Lead) SetScore(score int) {
	now := time.Now()
	l.Score = score
	l.ScoreUpdatedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()
}

// OverrideScore pins the score to a manual value
func (l *Lead) OverrideScore(score int) error {
	if score < 0 || score > 100 {
		return shared.NewDomainError("INVALID_SCORE", "Score override must be between 0 and 100")
	}

	now := time.Now()
	l.ScoreOverride = &score
	l.Score = score
	l.ScoreUpdatedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	return nil
}

// ClearScoreOverride removes a manual score pin
func (l *Lead) ClearScoreOverride() {
	l.ScoreOverride = nil
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// TouchActivity records that something happened on the lead just now
func (l *Lead) TouchActivity(at time.Time) {
	l.LastActivityAt = &at
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsTerminal returns true for SOLD and LOST
func (l *Lead) IsTerminal() bool {
	return l.Status == LeadStatusSold || l.Status == LeadStatusLost
}

// HasEmail returns true if the lead has an email address
func (l *Lead) HasEmail() bool {
	return l.Email != ""
}

// HasPhone returns true if the lead has a phone number
func (l *Lead) HasPhone() bool {
	return l.Phone != ""
}

// FullName returns the shopper's full name
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}
