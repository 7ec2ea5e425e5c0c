package crm

import (
	"context"

	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// persistEvents drains an aggregate's domain events into the append-only
// event log. The write is best-effort: a failure is logged and the primary
// operation still succeeds.
func persistEvents(ctx context.Context, eventLog audit.EventLogRepository, logger *zap.Logger, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	entries := make([]*audit.EventLogEntry, 0, len(events))
	for _, event := range events {
		entry, err := audit.NewEventLogEntry(event)
		if err != nil {
			logger.Error("Failed to encode domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		agg.ClearDomainEvents()
		return
	}

	if err := eventLog.Append(ctx, entries...); err != nil {
		logger.Error("Failed to append to event log", zap.Error(err))
		return
	}

	agg.ClearDomainEvents()
}
