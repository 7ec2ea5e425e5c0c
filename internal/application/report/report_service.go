// Package report builds funnel and ingestion reports. Funnel numbers are
// replayed from the append-only event log, never read from live counters.
package report

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// FunnelReport is the lead funnel for one dealership inside a time window
type FunnelReport struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	NewLeads       int             `json:"new_leads"`
	Contacted      int             `json:"contacted"`
	Appointments   int             `json:"appointments"`
	Showed         int             `json:"showed"`
	Sold           int             `json:"sold"`
	Lost           int             `json:"lost"`
	MessagesSent   int             `json:"messages_sent"`
	ConversionRate decimal.Decimal `json:"conversion_rate"` // sold / new leads
	ContactRate    decimal.Decimal `json:"contact_rate"`    // contacted / new leads
	LeadsBySource  map[string]int  `json:"leads_by_source"`
}

// SourceReport is the per-source ingestion tally inside a time window
type SourceReport struct {
	From    time.Time           `json:"from"`
	To      time.Time           `json:"to"`
	Sources []SourceReportEntry `json:"sources"`
}

// SourceReportEntry is the tally for one ingestion source
type SourceReportEntry struct {
	Source         string          `json:"source"`
	Accepted       int64           `json:"accepted"`
	Rejected       int64           `json:"rejected"`
	AcceptanceRate decimal.Decimal `json:"acceptance_rate"`
}

// ReportService builds reports by replaying recorded events
type ReportService struct {
	eventLog  audit.EventLogRepository
	eventRepo audit.IntegrationEventRepository
	logger    *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(eventLog audit.EventLogRepository, eventRepo audit.IntegrationEventRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		eventLog:  eventLog,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// replayedPayload covers the payload fields the funnel replay reads. Every
// event type shares the envelope, unknown fields stay zero.
type replayedPayload struct {
	Source    string `json:"source"`
	NewStatus string `json:"new_status"`
	Outcome   string `json:"outcome"`
	Direction string `json:"direction"`
}

// LeadFunnel replays the event log for a window and rebuilds funnel counts.
// A lead counts as contacted or sold when the transition happened inside
// the window, regardless of when the lead was created.
func (s *ReportService) LeadFunnel(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) (*FunnelReport, error) {
	entries, err := s.eventLog.FindByDealership(ctx, dealershipID, from, to)
	if err != nil {
		s.logger.Error("Failed to load event log for funnel", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build funnel report")
	}

	report := &FunnelReport{
		From:           from,
		To:             to,
		LeadsBySource:  make(map[string]int),
		ConversionRate: decimal.Zero,
		ContactRate:    decimal.Zero,
	}

	// Count each lead at most once per funnel stage
	contacted := make(map[uuid.UUID]struct{})
	sold := make(map[uuid.UUID]struct{})
	lost := make(map[uuid.UUID]struct{})

	for _, entry := range entries {
		var payload replayedPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			s.logger.Warn("Skipping undecodable event log entry",
				zap.String("event_id", entry.ID.String()),
				zap.Error(err))
			continue
		}

		switch entry.EventType {
		case crm.EventTypeLeadCreated:
			report.NewLeads++
			source := payload.Source
			if source == "" {
				source = "unknown"
			}
			report.LeadsBySource[source]++

		case crm.EventTypeLeadStatusChanged:
			switch crm.LeadStatus(payload.NewStatus) {
			case crm.LeadStatusContacted:
				contacted[entry.AggregateID] = struct{}{}
			case crm.LeadStatusSold:
				sold[entry.AggregateID] = struct{}{}
			case crm.LeadStatusLost:
				lost[entry.AggregateID] = struct{}{}
			}

		case crm.EventTypeAppointmentScheduled:
			report.Appointments++

		case crm.EventTypeAppointmentOutcome:
			if crm.AppointmentStatus(payload.Outcome) == crm.AppointmentStatusShowed {
				report.Showed++
			}

		case crm.EventTypeMessageLogged:
			if crm.MessageDirection(payload.Direction) == crm.MessageDirectionOutbound {
				report.MessagesSent++
			}
		}
	}

	report.Contacted = len(contacted)
	report.Sold = len(sold)
	report.Lost = len(lost)

	if report.NewLeads > 0 {
		base := decimal.NewFromInt(int64(report.NewLeads))
		report.ConversionRate = decimal.NewFromInt(int64(report.Sold)).Div(base).Round(4)
		report.ContactRate = decimal.NewFromInt(int64(report.Contacted)).Div(base).Round(4)
	}

	return report, nil
}

// IngestionBySource reports accepted and rejected row counts per source
func (s *ReportService) IngestionBySource(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) (*SourceReport, error) {
	counts, err := s.eventRepo.CountBySource(ctx, dealershipID, from, to)
	if err != nil {
		s.logger.Error("Failed to count integration events", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build source report")
	}

	report := &SourceReport{
		From:    from,
		To:      to,
		Sources: make([]SourceReportEntry, 0, len(counts)),
	}

	for source, tally := range counts {
		entry := SourceReportEntry{
			Source:         source,
			Accepted:       tally.Accepted,
			Rejected:       tally.Rejected,
			AcceptanceRate: decimal.Zero,
		}
		if total := tally.Accepted + tally.Rejected; total > 0 {
			entry.AcceptanceRate = decimal.NewFromInt(tally.Accepted).Div(decimal.NewFromInt(total)).Round(4)
		}
		report.Sources = append(report.Sources, entry)
	}

	sort.Slice(report.Sources, func(i, j int) bool {
		return report.Sources[i].Source < report.Sources[j].Source
	})

	return report, nil
}
