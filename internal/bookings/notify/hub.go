package notify

import (
	"context"
	"sync"
	"time"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

// Event types carried on lifecycle notifications.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// Event is the payload delivered to every observer. OldStatus and
// NewStatus are only meaningful for status-change events.
type Event struct {
	Type       string              `json:"type"`
	Booking    *model.Booking      `json:"booking"`
	OldStatus  model.BookingStatus `json:"old_status,omitempty"`
	NewStatus  model.BookingStatus `json:"new_status,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Observer receives booking lifecycle events. Implementations must
// treat the booking as read-only.
type Observer interface {
	Name() string
	Notify(ctx context.Context, event Event) error
}

// Hub fans booking lifecycle events out to registered observers.
// Delivery is synchronous and isolated: an observer that errors or
// panics is logged and skipped, and never prevents the remaining
// observers from being notified. Observers must not mutate bookings.
type Hub struct {
	mu        sync.RWMutex
	observers []Observer
	log       *logger.Logger
}

func NewHub(log *logger.Logger, observers ...Observer) *Hub {
	return &Hub{
		observers: observers,
		log:       log,
	}
}

// Register appends an observer. Duplicate names are allowed; each
// registration is notified once per event.
func (h *Hub) Register(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
	h.log.Info("Observer registered", "observer", o.Name())
}

// Deregister removes the first observer with the given name. Returns
// false if no observer matched.
func (h *Hub) Deregister(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, o := range h.observers {
		if o.Name() == name {
			h.observers = append(h.observers[:i], h.observers[i+1:]...)
			h.log.Info("Observer deregistered", "observer", name)
			return true
		}
	}
	return false
}

// BookingCreated notifies all observers of a new provisional booking.
func (h *Hub) BookingCreated(ctx context.Context, booking *model.Booking) {
	h.emit(ctx, Event{
		Type:       EventBookingCreated,
		Booking:    booking,
		OccurredAt: time.Now().UTC(),
	})
}

// BookingStatusChanged notifies all observers of a status transition.
func (h *Hub) BookingStatusChanged(ctx context.Context, booking *model.Booking, old, new model.BookingStatus) {
	h.emit(ctx, Event{
		Type:       EventBookingStatusChanged,
		Booking:    booking,
		OldStatus:  old,
		NewStatus:  new,
		OccurredAt: time.Now().UTC(),
	})
}

func (h *Hub) emit(ctx context.Context, event Event) {
	h.mu.RLock()
	observers := make([]Observer, len(h.observers))
	copy(observers, h.observers)
	h.mu.RUnlock()

	for _, o := range observers {
		h.notifyOne(ctx, o, event)
	}
}

func (h *Hub) notifyOne(ctx context.Context, o Observer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Observer panicked",
				"observer", o.Name(),
				"event_type", event.Type,
				"booking_id", event.Booking.ID,
				"panic", r,
			)
		}
	}()

	if err := o.Notify(ctx, event); err != nil {
		h.log.Error("Observer notification failed",
			"observer", o.Name(),
			"event_type", event.Type,
			"booking_id", event.Booking.ID,
			"error", err,
		)
	}
}
