package model

import (
	"time"
)

// Booking is the central entity of the reservation core. HoldExpiresAt
// is set while the booking is PROVISIONAL and cleared on every
// transition out of it.
type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TripID        string        `json:"trip_id" bson:"trip_id" validate:"required,mongodb"`
	Name          string        `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Contact       string        `json:"contact" bson:"contact" validate:"required,contact_number"`
	Email         string        `json:"email" bson:"email" validate:"required,email"`
	Passengers    int           `json:"passengers" bson:"passengers" validate:"required,min=1,max=200"`
	Status        BookingStatus `json:"status" bson:"status" validate:"required,oneof=PROVISIONAL CONFIRMED CANCELLED EXPIRED"`
	HoldExpiresAt *time.Time    `json:"hold_expires_at,omitempty" bson:"hold_expires_at,omitempty"`
	TotalCost     float64       `json:"total_cost" bson:"total_cost" validate:"omitempty,gte=0"`
	PaymentID     string        `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// HoldExpired reports whether the provisional hold has lapsed at the
// given instant. Bookings without a hold never expire.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.Status == BookingProvisional &&
		b.HoldExpiresAt != nil &&
		b.HoldExpiresAt.Before(now)
}

// ConsumesCapacity reports whether the booking counts against the
// trip's capacity at the given instant. Expired holds are excluded
// lazily, without waiting for the sweep to mark them EXPIRED.
func (b *Booking) ConsumesCapacity(now time.Time) bool {
	switch b.Status {
	case BookingConfirmed:
		return true
	case BookingProvisional:
		return !b.HoldExpired(now)
	}
	return false
}

// ReservationRequest is the client input for creating a provisional
// booking.
type ReservationRequest struct {
	TripID     string `json:"trip_id" validate:"required,mongodb"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Contact    string `json:"contact" validate:"required,contact_number"`
	Email      string `json:"email" validate:"required,email"`
	Passengers int    `json:"passengers" validate:"required,min=1,max=200"`
}

// StatusUpdateRequest is the operator input for an administrative
// status transition.
type StatusUpdateRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=PROVISIONAL CONFIRMED CANCELLED EXPIRED"`
}
