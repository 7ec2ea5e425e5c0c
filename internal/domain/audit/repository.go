package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventLogRepository defines the interface for the append-only event log
type EventLogRepository interface {
	// Append writes entries to the log. Entries are never updated or deleted.
	Append(ctx context.Context, entries ...*EventLogEntry) error

	// FindByDealership returns entries for a dealership inside a time window,
	// ordered by occurrence
	FindByDealership(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*EventLogEntry, error)

	// FindByAggregate returns the history of one aggregate, ordered by occurrence
	FindByAggregate(ctx context.Context, dealershipID, aggregateID uuid.UUID) ([]*EventLogEntry, error)
}

// IntegrationEventRepository defines the interface for integration event persistence
type IntegrationEventRepository interface {
	// Create records an inbound row
	Create(ctx context.Context, event *IntegrationEvent) error

	// FindByDealership returns integration events for a dealership inside a window
	FindByDealership(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*IntegrationEvent, error)

	// CountBySource returns accepted/rejected counts per source inside a window
	CountBySource(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) (map[string]SourceCounts, error)
}

// SourceCounts is the accepted/rejected tally for one ingestion source
type SourceCounts struct {
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}
