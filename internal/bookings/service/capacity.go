package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "boatsafari/internal/bookings/errors"
	"boatsafari/internal/bookings/repository"
	apperrors "boatsafari/pkg/errors"
)

// CapacityLedger answers how many seats remain on a trip. There is no
// stored counter: availability is always derived from the bookings
// themselves, so it cannot drift. Holds that lapsed but have not yet
// been swept to EXPIRED are excluded lazily by timestamp comparison.
type CapacityLedger struct {
	trips    repository.TripRepository
	bookings repository.BookingRepository
	now      func() time.Time
}

func NewCapacityLedger(trips repository.TripRepository, bookings repository.BookingRepository) *CapacityLedger {
	return &CapacityLedger{
		trips:    trips,
		bookings: bookings,
		now:      time.Now,
	}
}

// CommittedSeats sums the passengers of every booking currently
// consuming capacity on the trip: CONFIRMED bookings plus PROVISIONAL
// ones whose hold is still live.
func (l *CapacityLedger) CommittedSeats(ctx context.Context, tripID string) (int, error) {
	bookings, err := l.bookings.FindByTrip(ctx, tripID)
	if err != nil {
		return 0, apperrors.Internal("Failed to load bookings for capacity check", err)
	}

	now := l.now()
	committed := 0
	for _, b := range bookings {
		if b.ConsumesCapacity(now) {
			committed += b.Passengers
		}
	}
	return committed, nil
}

// AvailableSeats returns the trip capacity minus committed seats.
// Never negative, even if historical data oversold the trip.
func (l *CapacityLedger) AvailableSeats(ctx context.Context, tripID string) (int, error) {
	trip, err := l.trips.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrTripNotFound) {
			return 0, apperrors.NotFoundWithID("Trip", tripID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return 0, apperrors.InvalidInput("Invalid trip ID format")
		}
		return 0, apperrors.Internal("Failed to load trip for capacity check", err)
	}

	committed, err := l.CommittedSeats(ctx, tripID)
	if err != nil {
		return 0, err
	}

	available := trip.Capacity - committed
	if available < 0 {
		available = 0
	}
	return available, nil
}
