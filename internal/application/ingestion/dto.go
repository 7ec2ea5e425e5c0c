package ingestion

import (
	"encoding/json"

	"github.com/google/uuid"
)

// CSVSource is the IntegrationEvent source tag for file imports
const CSVSource = "csv_import"

// ImportCSVInput is one CSV import request
type ImportCSVInput struct {
	DealershipID uuid.UUID
	Data         []byte
	UploadedBy   uuid.UUID
}

// ImportSummary reports the outcome of a best-effort import
type ImportSummary struct {
	TotalRows    int `json:"totalRows"`
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}

// WebhookLeadInput is one lead pushed by a third-party provider
type WebhookLeadInput struct {
	DealershipID uuid.UUID
	Provider     string // e.g. "autotrader", becomes source "webhook:autotrader"
	Payload      json.RawMessage
}
