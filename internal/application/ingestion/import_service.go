// Package ingestion turns external lead data (CSV uploads, provider
// webhooks) into leads, one IntegrationEvent receipt per inbound row.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/csvimport"
	"github.com/dealercrm/backend/internal/infrastructure/telemetry"
)

// ImportService ingests leads from CSV files and webhook payloads
type ImportService struct {
	leadRepo  crm.LeadRepository
	eventRepo audit.IntegrationEventRepository
	eventLog  audit.EventLogRepository
	logger    *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(
	leadRepo crm.LeadRepository,
	eventRepo audit.IntegrationEventRepository,
	eventLog audit.EventLogRepository,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		leadRepo:  leadRepo,
		eventRepo: eventRepo,
		eventLog:  eventLog,
		logger:    logger,
	}
}

// ImportCSV ingests a CSV file of leads. Header problems reject the whole
// file before any row is touched; after that the import is best-effort per
// row and always returns a summary. Every data row leaves exactly one
// IntegrationEvent behind, accepted or rejected.
func (s *ImportService) ImportCSV(ctx context.Context, input ImportCSVInput) (*ImportSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "import", "csv")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDealershipID, input.DealershipID.String(),
		telemetry.SpanAttrImportSource, CSVSource)

	parser, err := csvimport.ParseFromBytes(input.Data)
	if err != nil {
		return nil, s.mapFileError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, s.mapFileError(err)
	}

	mapping, err := csvimport.MapHeaders(parser.Headers())
	if err != nil {
		return nil, s.mapFileError(err)
	}

	summary := &ImportSummary{}

	for {
		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}

		var rowErr *csvimport.RowError
		if errors.As(err, &rowErr) {
			summary.TotalRows++
			summary.FailureCount++
			s.recordRejection(ctx, input.DealershipID, CSVSource, rowErr.Line, rowErr.Error(), nil)
			continue
		}
		if err != nil {
			s.logger.Error("CSV read aborted", zap.Error(err))
			return nil, shared.NewDomainError("IMPORT_READ_ERROR", "Failed to read CSV data")
		}

		summary.TotalRows++

		if row.IsEmpty() {
			summary.FailureCount++
			s.recordRejection(ctx, input.DealershipID, CSVSource, row.LineNumber, "empty row", nil)
			continue
		}

		payload, _ := json.Marshal(row.Data)

		normalized, err := csvimport.Normalize(row, mapping)
		if err != nil {
			summary.FailureCount++
			s.recordRejection(ctx, input.DealershipID, CSVSource, row.LineNumber, err.Error(), payload)
			continue
		}

		lead, err := s.createLead(ctx, input.DealershipID, normalized, crm.LeadSourceCSVImport, normalized.Source)
		if err != nil {
			summary.FailureCount++
			s.recordRejection(ctx, input.DealershipID, CSVSource, row.LineNumber, err.Error(), payload)
			continue
		}

		summary.SuccessCount++
		event := audit.NewIntegrationEvent(input.DealershipID, CSVSource, audit.IntegrationEventAccepted, row.LineNumber, "", payload)
		event.AttachLead(lead.ID)
		if err := s.eventRepo.Create(ctx, event); err != nil {
			s.logger.Error("Failed to record integration event", zap.Error(err))
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrRowCount, summary.TotalRows)
	s.logger.Info("CSV import finished",
		zap.String("dealership_id", input.DealershipID.String()),
		zap.Int("total_rows", summary.TotalRows),
		zap.Int("success_count", summary.SuccessCount),
		zap.Int("failure_count", summary.FailureCount))

	return summary, nil
}

// ImportWebhookLead ingests one lead pushed by a provider webhook. The
// payload must be a JSON object; fields resolve through the same header
// aliases the CSV path uses.
func (s *ImportService) ImportWebhookLead(ctx context.Context, input WebhookLeadInput) (*crm.Lead, error) {
	source := "webhook:" + input.Provider

	var raw map[string]interface{}
	if err := json.Unmarshal(input.Payload, &raw); err != nil {
		s.recordRejection(ctx, input.DealershipID, source, 0, "payload is not a JSON object", input.Payload)
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Webhook payload must be a JSON object")
	}

	normalized := normalizeWebhookPayload(raw)
	if !normalized.HasContact() {
		s.recordRejection(ctx, input.DealershipID, source, 0, "no email or phone value", input.Payload)
		return nil, shared.NewDomainError("MISSING_CONTACT", "Webhook payload carries no email or phone")
	}

	sourceDetail := normalized.Source
	if sourceDetail == "" {
		sourceDetail = input.Provider
	}

	lead, err := s.createLead(ctx, input.DealershipID, normalized, crm.LeadSourceThirdParty, sourceDetail)
	if err != nil {
		s.recordRejection(ctx, input.DealershipID, source, 0, err.Error(), input.Payload)
		return nil, err
	}

	event := audit.NewIntegrationEvent(input.DealershipID, source, audit.IntegrationEventAccepted, 0, input.Provider, input.Payload)
	event.AttachLead(lead.ID)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to record integration event", zap.Error(err))
	}

	s.logger.Info("Webhook lead ingested",
		zap.String("dealership_id", input.DealershipID.String()),
		zap.String("provider", input.Provider),
		zap.String("lead_id", lead.ID.String()))

	return lead, nil
}

func (s *ImportService) createLead(ctx context.Context, dealershipID uuid.UUID, n *csvimport.NormalizedRow, source crm.LeadSource, sourceDetail string) (*crm.Lead, error) {
	lead, err := crm.NewLead(dealershipID, n.FirstName, n.LastName, n.Email, n.Phone, source)
	if err != nil {
		return nil, err
	}

	lead.SourceDetail = sourceDetail
	lead.Notes = n.Notes
	if n.LeadType != "" {
		if err := lead.SetType(crm.LeadType(n.LeadType)); err != nil {
			return nil, err
		}
	}
	if n.Status != "" && n.Status != string(crm.LeadStatusNew) {
		// Imported rows may carry pipeline state from the source system.
		lead.Status = crm.LeadStatus(n.Status)
		if lead.Status == crm.LeadStatusSold {
			now := time.Now()
			lead.SoldAt = &now
		}
	}
	if n.VehicleInterest != "" {
		lead.SetVehicleInterest(n.VehicleInterest)
	}
	if n.TradeIn != "" {
		lead.SetTradeIn(n.TradeIn)
	}
	lead.TouchActivity(time.Now())

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.persistLeadEvents(ctx, lead)

	return lead, nil
}

// persistLeadEvents drains the lead's domain events into the event log.
// Ingestion treats the log as best-effort, a write failure never fails the
// import of the row that produced it.
func (s *ImportService) persistLeadEvents(ctx context.Context, lead *crm.Lead) {
	events := lead.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	entries := make([]*audit.EventLogEntry, 0, len(events))
	for _, event := range events {
		entry, err := audit.NewEventLogEntry(event)
		if err != nil {
			s.logger.Error("Failed to encode domain event", zap.Error(err))
			return
		}
		entries = append(entries, entry)
	}

	if err := s.eventLog.Append(ctx, entries...); err != nil {
		s.logger.Error("Failed to append to event log", zap.Error(err))
		return
	}

	lead.ClearDomainEvents()
}

func (s *ImportService) recordRejection(ctx context.Context, dealershipID uuid.UUID, source string, rowNumber int, detail string, payload json.RawMessage) {
	event := audit.NewIntegrationEvent(dealershipID, source, audit.IntegrationEventRejected, rowNumber, detail, payload)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to record integration event", zap.Error(err))
	}
}

func (s *ImportService) mapFileError(err error) error {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile):
		return shared.NewDomainError("IMPORT_EMPTY_FILE", "CSV file is empty")
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		return shared.NewDomainError("IMPORT_INVALID_ENCODING", "CSV file must be valid UTF-8")
	case errors.Is(err, csvimport.ErrMissingHeader):
		return shared.NewDomainError("IMPORT_MISSING_HEADER", "CSV file has no header row")
	case errors.Is(err, csvimport.ErrEmptyHeaderName):
		return shared.NewDomainError("IMPORT_BAD_HEADER", "CSV header contains an empty column name")
	case errors.Is(err, csvimport.ErrMissingContactColumn):
		return shared.NewDomainError("IMPORT_MISSING_CONTACT_COLUMN", "CSV header must include an email or phone column")
	default:
		s.logger.Error("CSV import rejected", zap.Error(err))
		return shared.NewDomainError("IMPORT_REJECTED", "CSV file could not be parsed")
	}
}

// normalizeWebhookPayload maps a JSON object onto canonical lead fields
// using the same alias table as CSV headers. Non-string values are ignored.
func normalizeWebhookPayload(raw map[string]interface{}) *csvimport.NormalizedRow {
	n := &csvimport.NormalizedRow{}
	for key, value := range raw {
		str, ok := value.(string)
		if !ok {
			continue
		}
		switch csvimport.ResolveField(key) {
		case csvimport.FieldFirstName:
			n.FirstName = strings.TrimSpace(str)
		case csvimport.FieldLastName:
			n.LastName = strings.TrimSpace(str)
		case csvimport.FieldEmail:
			n.Email = csvimport.NormalizeEmail(str)
		case csvimport.FieldPhone:
			n.Phone = csvimport.NormalizePhone(str)
		case csvimport.FieldSource:
			n.Source = strings.TrimSpace(str)
		case csvimport.FieldLeadType:
			if t, err := csvimport.NormalizeLeadType(str); err == nil {
				n.LeadType = t
			}
		case csvimport.FieldStatus:
			if st, err := csvimport.NormalizeLeadStatus(str); err == nil {
				n.Status = st
			}
		case csvimport.FieldVehicleInterest:
			n.VehicleInterest = strings.TrimSpace(str)
		case csvimport.FieldTradeIn:
			n.TradeIn = strings.TrimSpace(str)
		case csvimport.FieldNotes:
			n.Notes = strings.TrimSpace(str)
		}
	}
	if n.LeadType == "" {
		n.LeadType = string(crm.LeadTypeGeneral)
	}
	if n.Status == "" {
		n.Status = string(crm.LeadStatusNew)
	}
	return n
}
