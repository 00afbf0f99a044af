package notify

import (
	"context"
	"fmt"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

// EmailObserver sends booking emails to the customer. Delivery here is
// a structured log of the rendered message; a real SMTP integration
// slots in behind the same interface.
type EmailObserver struct {
	log *logger.Logger
}

func NewEmailObserver(log *logger.Logger) *EmailObserver {
	return &EmailObserver{log: log}
}

func (o *EmailObserver) Name() string { return "email" }

func (o *EmailObserver) Notify(ctx context.Context, event Event) error {
	subject := o.subject(event)
	if subject == "" {
		return nil
	}

	o.log.Info("Sending booking email",
		"to", event.Booking.Email,
		"subject", subject,
		"booking_id", event.Booking.ID,
		"trip_id", event.Booking.TripID,
	)
	return nil
}

func (o *EmailObserver) subject(event Event) string {
	switch event.Type {
	case EventBookingCreated:
		return fmt.Sprintf("Booking received - seats held for %d passenger(s)", event.Booking.Passengers)
	case EventBookingStatusChanged:
		switch event.NewStatus {
		case model.BookingConfirmed:
			return "Your safari booking is confirmed"
		case model.BookingCancelled:
			return "Your safari booking has been cancelled"
		case model.BookingExpired:
			return "Your safari booking hold has expired"
		}
	}
	return ""
}
