package service

import (
	"context"
	"testing"
	"time"

	apperrors "boatsafari/pkg/errors"
	"boatsafari/pkg/model"
)

func TestAvailableSeats(t *testing.T) {
	liveHold := time.Now().Add(10 * time.Minute)
	lapsedHold := time.Now().Add(-time.Minute)

	tests := []struct {
		name     string
		bookings []*model.Booking
		want     int
	}{
		{
			name: "empty trip",
			want: 10,
		},
		{
			name: "confirmed bookings count",
			bookings: []*model.Booking{
				{Passengers: 4, Status: model.BookingConfirmed},
			},
			want: 6,
		},
		{
			name: "live holds count",
			bookings: []*model.Booking{
				{Passengers: 3, Status: model.BookingProvisional, HoldExpiresAt: &liveHold},
			},
			want: 7,
		},
		{
			name: "lapsed holds are excluded before the sweep runs",
			bookings: []*model.Booking{
				{Passengers: 6, Status: model.BookingProvisional, HoldExpiresAt: &lapsedHold},
			},
			want: 10,
		},
		{
			name: "terminal bookings never count",
			bookings: []*model.Booking{
				{Passengers: 5, Status: model.BookingCancelled},
				{Passengers: 5, Status: model.BookingExpired},
			},
			want: 10,
		},
		{
			name: "mixed",
			bookings: []*model.Booking{
				{Passengers: 4, Status: model.BookingConfirmed},
				{Passengers: 2, Status: model.BookingProvisional, HoldExpiresAt: &liveHold},
				{Passengers: 3, Status: model.BookingProvisional, HoldExpiresAt: &lapsedHold},
				{Passengers: 1, Status: model.BookingCancelled},
			},
			want: 4,
		},
		{
			name: "oversold history clamps to zero",
			bookings: []*model.Booking{
				{Passengers: 12, Status: model.BookingConfirmed},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips := &mockTripRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
					return testTrip(), nil
				},
			}
			repo := &mockBookingRepo{
				findByTripFunc: func(ctx context.Context, tripID string) ([]*model.Booking, error) {
					return tt.bookings, nil
				},
			}
			ledger := NewCapacityLedger(trips, repo)

			got, err := ledger.AvailableSeats(context.Background(), testTripID)
			if err != nil {
				t.Fatalf("AvailableSeats returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AvailableSeats = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAvailableSeats_TripNotFound(t *testing.T) {
	ledger := NewCapacityLedger(&mockTripRepo{}, &mockBookingRepo{})

	_, err := ledger.AvailableSeats(context.Background(), testTripID)
	wantAppErrorCode(t, err, apperrors.CodeNotFound)
}
