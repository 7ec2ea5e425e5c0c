package scoring

import (
	"testing"
	"time"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput(now time.Time) Input {
	return Input{
		Status: crm.LeadStatusNew,
		Now:    now,
	}
}

func TestComputeSoldShortCircuit(t *testing.T) {
	in := Input{
		Status:    crm.LeadStatusSold,
		HadNoShow: true, // would otherwise apply a penalty
		Now:       time.Now(),
	}

	b := Compute(in)

	assert.Equal(t, MaxScore, b.Total)
	assert.Zero(t, b.Contactability)
	assert.Zero(t, b.Penalty)
}

func TestComputeDeterminism(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	activity := now.Add(-2 * time.Hour)

	in := Input{
		Status:                 crm.LeadStatusQualified,
		Email:                  "dana@example.com",
		Phone:                  "(555) 010-7788",
		FirstName:              "Dana",
		LastName:               "Whitfield",
		VehicleInterest:        "2024 Accord EX-L",
		OutboundMessages:       4,
		InboundMessages:        2,
		CallsLogged:            1,
		ContactAttempts:        5,
		HasUpcomingAppointment: true,
		LastActivityAt:         &activity,
		Now:                    now,
	}

	first := Compute(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(in))
	}
}

func TestComputeComponents(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("contactability", func(t *testing.T) {
		in := baseInput(now)
		in.Phone = "555-010-7788" // ten digits
		in.Email = "dana@example.com"
		in.FirstName = "Dana"
		in.LastName = "Whitfield"
		in.VehicleInterest = "Civic"

		b := Compute(in)
		assert.Equal(t, 30, b.Contactability)
	})

	t.Run("short phone earns nothing", func(t *testing.T) {
		in := baseInput(now)
		in.Phone = "555-0107"

		b := Compute(in)
		assert.Zero(t, b.Contactability)
	})

	t.Run("single name earns half", func(t *testing.T) {
		in := baseInput(now)
		in.FirstName = "Dana"

		b := Compute(in)
		assert.Equal(t, 4, b.Contactability)
	})

	t.Run("engagement is capped", func(t *testing.T) {
		in := baseInput(now)
		in.OutboundMessages = 10
		in.InboundMessages = 5
		in.CallsLogged = 3
		in.ContactAttempts = 13

		// 10 + 15 + 5 + 10 = 40, capped at 35
		b := Compute(in)
		assert.Equal(t, 35, b.Engagement)
	})

	t.Run("showed beats upcoming", func(t *testing.T) {
		in := baseInput(now)
		in.HasShowedAppointment = true
		in.HasUpcomingAppointment = true

		b := Compute(in)
		assert.Equal(t, 25, b.Appointment)
	})

	t.Run("upcoming appointment alone", func(t *testing.T) {
		in := baseInput(now)
		in.HasUpcomingAppointment = true

		b := Compute(in)
		assert.Equal(t, 15, b.Appointment)
	})

	t.Run("stage values", func(t *testing.T) {
		cases := map[crm.LeadStatus]int{
			crm.LeadStatusNew:            2,
			crm.LeadStatusContacted:      5,
			crm.LeadStatusQualified:      10,
			crm.LeadStatusAppointmentSet: 14,
			crm.LeadStatusNegotiating:    20,
			crm.LeadStatusLost:           0,
		}
		for status, want := range cases {
			in := baseInput(now)
			in.Status = status
			assert.Equal(t, want, Compute(in).Stage, "status %s", status)
		}
	})

	t.Run("freshness tiers", func(t *testing.T) {
		tiers := []struct {
			age  time.Duration
			want int
		}{
			{2 * time.Hour, 5},
			{48 * time.Hour, 2},
			{7 * 24 * time.Hour, 0},
			{20 * 24 * time.Hour, -5},
		}
		for _, tier := range tiers {
			in := baseInput(now)
			at := now.Add(-tier.age)
			in.LastActivityAt = &at
			assert.Equal(t, tier.want, Compute(in).Freshness, "age %s", tier.age)
		}
	})

	t.Run("no activity timestamp is neutral", func(t *testing.T) {
		b := Compute(baseInput(now))
		assert.Zero(t, b.Freshness)
	})

	t.Run("no-show penalty", func(t *testing.T) {
		in := baseInput(now)
		in.HadNoShow = true

		b := Compute(in)
		assert.Equal(t, -10, b.Penalty)
	})
}

func TestComputeBounds(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("never below zero", func(t *testing.T) {
		in := baseInput(now)
		in.Status = crm.LeadStatusLost
		in.HadNoShow = true
		stale := now.Add(-30 * 24 * time.Hour)
		in.LastActivityAt = &stale

		b := Compute(in)
		assert.Equal(t, 0, b.Total)
	})

	t.Run("never above one hundred", func(t *testing.T) {
		in := Input{
			Status:               crm.LeadStatusNegotiating,
			Email:                "dana@example.com",
			Phone:                "5550107788",
			FirstName:            "Dana",
			LastName:             "Whitfield",
			VehicleInterest:      "Accord",
			OutboundMessages:     10,
			InboundMessages:      10,
			CallsLogged:          10,
			ContactAttempts:      10,
			HasShowedAppointment: true,
			Now:                  now,
		}
		recent := now.Add(-time.Hour)
		in.LastActivityAt = &recent

		b := Compute(in)
		require.LessOrEqual(t, b.Total, MaxScore)
		require.GreaterOrEqual(t, b.Total, MinScore)
	})
}

func TestComputeReasons(t *testing.T) {
	now := time.Now()
	in := baseInput(now)
	in.Email = "dana@example.com"
	in.InboundMessages = 1

	b := Compute(in)
	assert.Contains(t, b.Reasons, "has an email address")
	assert.Contains(t, b.Reasons, "shopper has replied")
}
