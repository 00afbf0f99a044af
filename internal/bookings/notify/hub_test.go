package notify

import (
	"context"
	"errors"
	"testing"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Service: "notify-test"})
}

type recordingObserver struct {
	name   string
	events []Event
	err    error
	panics bool
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) Notify(ctx context.Context, event Event) error {
	if o.panics {
		panic("observer blew up")
	}
	o.events = append(o.events, event)
	return o.err
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:         "507f1f77bcf86cd799439011",
		TripID:     "507f1f77bcf86cd799439022",
		Name:       "Nimal Perera",
		Email:      "nimal@example.com",
		Passengers: 2,
		Status:     model.BookingProvisional,
	}
}

func TestHubNotifiesAllObservers(t *testing.T) {
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	hub := NewHub(testLogger(), first, second)

	hub.BookingCreated(context.Background(), testBooking())

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("expected one event each, got %d and %d", len(first.events), len(second.events))
	}
	if first.events[0].Type != EventBookingCreated {
		t.Errorf("event type = %s, want %s", first.events[0].Type, EventBookingCreated)
	}
}

func TestHubStatusChangeCarriesTransition(t *testing.T) {
	obs := &recordingObserver{name: "only"}
	hub := NewHub(testLogger(), obs)

	b := testBooking()
	hub.BookingStatusChanged(context.Background(), b, model.BookingProvisional, model.BookingConfirmed)

	if len(obs.events) != 1 {
		t.Fatalf("expected one event, got %d", len(obs.events))
	}
	event := obs.events[0]
	if event.OldStatus != model.BookingProvisional || event.NewStatus != model.BookingConfirmed {
		t.Errorf("transition = %s -> %s, want PROVISIONAL -> CONFIRMED", event.OldStatus, event.NewStatus)
	}
}

func TestHubIsolatesFailingObserver(t *testing.T) {
	failing := &recordingObserver{name: "failing", err: errors.New("smtp down")}
	healthy := &recordingObserver{name: "healthy"}
	hub := NewHub(testLogger(), failing, healthy)

	hub.BookingCreated(context.Background(), testBooking())

	if len(healthy.events) != 1 {
		t.Fatalf("healthy observer should still be notified, got %d events", len(healthy.events))
	}
}

func TestHubIsolatesPanickingObserver(t *testing.T) {
	panicking := &recordingObserver{name: "panicking", panics: true}
	healthy := &recordingObserver{name: "healthy"}
	hub := NewHub(testLogger(), panicking, healthy)

	hub.BookingCreated(context.Background(), testBooking())

	if len(healthy.events) != 1 {
		t.Fatalf("healthy observer should still be notified, got %d events", len(healthy.events))
	}
}

func TestHubRegisterDeregister(t *testing.T) {
	hub := NewHub(testLogger())
	obs := &recordingObserver{name: "late"}

	hub.Register(obs)
	hub.BookingCreated(context.Background(), testBooking())
	if len(obs.events) != 1 {
		t.Fatalf("registered observer should be notified, got %d events", len(obs.events))
	}

	if !hub.Deregister("late") {
		t.Fatal("Deregister should report success for a registered name")
	}
	hub.BookingCreated(context.Background(), testBooking())
	if len(obs.events) != 1 {
		t.Errorf("deregistered observer should not be notified, got %d events", len(obs.events))
	}

	if hub.Deregister("late") {
		t.Error("Deregister should report failure for an unknown name")
	}
}

type countingSeatCounter struct {
	calls int
	seats int
}

func (c *countingSeatCounter) AvailableSeats(ctx context.Context, tripID string) (int, error) {
	c.calls++
	return c.seats, nil
}

func TestInventoryObserverSkipsNeutralTransitions(t *testing.T) {
	seats := &countingSeatCounter{seats: 7}
	obs := NewInventoryObserver(seats, testLogger())
	hub := NewHub(testLogger(), obs)
	b := testBooking()

	hub.BookingCreated(context.Background(), b)
	if seats.calls != 1 {
		t.Fatalf("created event should recount seats, calls = %d", seats.calls)
	}

	// Confirmation keeps the same seats committed.
	hub.BookingStatusChanged(context.Background(), b, model.BookingProvisional, model.BookingConfirmed)
	if seats.calls != 1 {
		t.Errorf("confirmation should not recount seats, calls = %d", seats.calls)
	}

	hub.BookingStatusChanged(context.Background(), b, model.BookingConfirmed, model.BookingCancelled)
	if seats.calls != 2 {
		t.Errorf("cancellation should recount seats, calls = %d", seats.calls)
	}
}
