package notify

import (
	"context"

	"boatsafari/pkg/logger"
)

// AuditObserver writes an append-only audit trail of every lifecycle
// event to the structured log.
type AuditObserver struct {
	log *logger.Logger
}

func NewAuditObserver(log *logger.Logger) *AuditObserver {
	return &AuditObserver{log: log.With("component", "audit")}
}

func (o *AuditObserver) Name() string { return "audit" }

func (o *AuditObserver) Notify(ctx context.Context, event Event) error {
	o.log.Info("Booking audit entry",
		"event_type", event.Type,
		"booking_id", event.Booking.ID,
		"trip_id", event.Booking.TripID,
		"old_status", event.OldStatus,
		"new_status", event.NewStatus,
		"passengers", event.Booking.Passengers,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
