// Package scoring computes lead scores. The engine is a pure function over a
// snapshot of facts about a lead, so the same snapshot always produces the
// same score.
package scoring

import (
	"fmt"
	"time"

	"github.com/dealercrm/backend/internal/domain/crm"
)

// Component point values. The per-component caps keep the total inside
// [0, 100] before the final clamp.
const (
	MaxScore = 100
	MinScore = 0

	pointsPhone           = 10
	pointsEmail           = 8
	pointsBothNames       = 8
	pointsOneName         = 4
	pointsVehicleInterest = 4

	pointsOutbound     = 10
	pointsInbound      = 15
	pointsCallLogged   = 5
	pointsPersistence  = 10
	engagementCap      = 35
	persistenceFloor   = 3 // contact attempts needed for the persistence bonus

	pointsShowed   = 25
	pointsUpcoming = 15

	pointsFreshToday  = 5
	pointsFreshRecent = 2
	pointsStale       = -5
	freshnessToday    = 24 * time.Hour
	freshnessRecent   = 72 * time.Hour
	freshnessStale    = 14 * 24 * time.Hour

	pointsNoShowPenalty = -10

	phoneMinDigits = 10
)

// stagePoints maps pipeline position to its base value. SOLD is absent
// because it short-circuits to MaxScore.
var stagePoints = map[crm.LeadStatus]int{
	crm.LeadStatusNew:            2,
	crm.LeadStatusContacted:      5,
	crm.LeadStatusQualified:      10,
	crm.LeadStatusAppointmentSet: 14,
	crm.LeadStatusNegotiating:    20,
	crm.LeadStatusLost:           0,
}

// Input is the snapshot of facts the engine scores. Callers assemble it from
// the lead row and its relations; the engine itself never touches storage.
type Input struct {
	Status          crm.LeadStatus
	Email           string
	Phone           string
	FirstName       string
	LastName        string
	VehicleInterest string

	OutboundMessages int
	InboundMessages  int
	CallsLogged      int
	ContactAttempts  int

	HasShowedAppointment   bool
	HasUpcomingAppointment bool
	HadNoShow              bool

	LastActivityAt *time.Time
	Now            time.Time
}

// Breakdown is the scored result with per-component subtotals and
// human-readable reasons.
type Breakdown struct {
	Total          int      `json:"total"`
	Contactability int      `json:"contactability"`
	Engagement     int      `json:"engagement"`
	Appointment    int      `json:"appointment"`
	Stage          int      `json:"stage"`
	Freshness      int      `json:"freshness"`
	Penalty        int      `json:"penalty"`
	Reasons        []string `json:"reasons"`
}

// Compute scores a lead snapshot. A SOLD lead always scores MaxScore with no
// further evaluation.
func Compute(in Input) Breakdown {
	if in.Status == crm.LeadStatusSold {
		return Breakdown{
			Total:   MaxScore,
			Reasons: []string{"lead is sold"},
		}
	}

	b := Breakdown{Reasons: make([]string, 0, 8)}

	b.Contactability = scoreContactability(in, &b)
	b.Engagement = scoreEngagement(in, &b)
	b.Appointment = scoreAppointment(in, &b)
	b.Stage = scoreStage(in, &b)
	b.Freshness = scoreFreshness(in, &b)
	b.Penalty = scorePenalty(in, &b)

	b.Total = clamp(b.Contactability + b.Engagement + b.Appointment + b.Stage + b.Freshness + b.Penalty)

	return b
}

func scoreContactability(in Input, b *Breakdown) int {
	points := 0

	if countDigits(in.Phone) >= phoneMinDigits {
		points += pointsPhone
		b.Reasons = append(b.Reasons, "has a dialable phone number")
	}
	if containsAt(in.Email) {
		points += pointsEmail
		b.Reasons = append(b.Reasons, "has an email address")
	}

	switch {
	case in.FirstName != "" && in.LastName != "":
		points += pointsBothNames
		b.Reasons = append(b.Reasons, "full name on file")
	case in.FirstName != "" || in.LastName != "":
		points += pointsOneName
		b.Reasons = append(b.Reasons, "partial name on file")
	}

	if in.VehicleInterest != "" {
		points += pointsVehicleInterest
		b.Reasons = append(b.Reasons, "named a vehicle of interest")
	}

	return points
}

func scoreEngagement(in Input, b *Breakdown) int {
	points := 0

	if in.OutboundMessages > 0 {
		points += pointsOutbound
	}
	if in.InboundMessages > 0 {
		points += pointsInbound
		b.Reasons = append(b.Reasons, "shopper has replied")
	}
	if in.CallsLogged > 0 {
		points += pointsCallLogged
	}
	if in.ContactAttempts >= persistenceFloor {
		points += pointsPersistence
		b.Reasons = append(b.Reasons, fmt.Sprintf("%d contact attempts made", in.ContactAttempts))
	}

	if points > engagementCap {
		points = engagementCap
	}

	return points
}

func scoreAppointment(in Input, b *Breakdown) int {
	if in.HasShowedAppointment {
		b.Reasons = append(b.Reasons, "showed for an appointment")
		return pointsShowed
	}
	if in.HasUpcomingAppointment {
		b.Reasons = append(b.Reasons, "upcoming appointment on the books")
		return pointsUpcoming
	}
	return 0
}

func scoreStage(in Input, b *Breakdown) int {
	points, ok := stagePoints[in.Status]
	if !ok {
		return 0
	}
	if points > 0 {
		b.Reasons = append(b.Reasons, fmt.Sprintf("pipeline stage %s", in.Status))
	}
	return points
}

func scoreFreshness(in Input, b *Breakdown) int {
	if in.LastActivityAt == nil {
		return 0
	}

	age := in.Now.Sub(*in.LastActivityAt)
	switch {
	case age <= freshnessToday:
		b.Reasons = append(b.Reasons, "active within the last day")
		return pointsFreshToday
	case age <= freshnessRecent:
		return pointsFreshRecent
	case age > freshnessStale:
		b.Reasons = append(b.Reasons, "no activity for over two weeks")
		return pointsStale
	}
	return 0
}

func scorePenalty(in Input, b *Breakdown) int {
	if in.HadNoShow {
		b.Reasons = append(b.Reasons, "missed a prior appointment")
		return pointsNoShowPenalty
	}
	return 0
}

func clamp(score int) int {
	if score > MaxScore {
		return MaxScore
	}
	if score < MinScore {
		return MinScore
	}
	return score
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func containsAt(s string) bool {
	for _, r := range s {
		if r == '@' {
			return true
		}
	}
	return false
}
