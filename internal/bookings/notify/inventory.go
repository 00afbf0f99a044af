package notify

import (
	"context"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

// SeatCounter reports remaining capacity for a trip. Satisfied by the
// capacity ledger.
type SeatCounter interface {
	AvailableSeats(ctx context.Context, tripID string) (int, error)
}

// InventoryObserver recomputes remaining seats whenever a booking
// starts or stops consuming capacity, giving operations a running
// availability feed.
type InventoryObserver struct {
	seats SeatCounter
	log   *logger.Logger
}

func NewInventoryObserver(seats SeatCounter, log *logger.Logger) *InventoryObserver {
	return &InventoryObserver{seats: seats, log: log}
}

func (o *InventoryObserver) Name() string { return "inventory" }

func (o *InventoryObserver) Notify(ctx context.Context, event Event) error {
	if !o.affectsCapacity(event) {
		return nil
	}

	available, err := o.seats.AvailableSeats(ctx, event.Booking.TripID)
	if err != nil {
		return err
	}

	o.log.Info("Trip availability updated",
		"trip_id", event.Booking.TripID,
		"booking_id", event.Booking.ID,
		"event_type", event.Type,
		"available_seats", available,
	)
	return nil
}

func (o *InventoryObserver) affectsCapacity(event Event) bool {
	if event.Type == EventBookingCreated {
		return true
	}
	// PROVISIONAL -> CONFIRMED keeps the same seats committed; the
	// interesting transitions are those that release them.
	return event.NewStatus == model.BookingCancelled || event.NewStatus == model.BookingExpired
}
