package notify

import (
	"context"

	"boatsafari/pkg/kafka"
	"boatsafari/pkg/logger"
)

// StreamObserver publishes lifecycle events to the booking events
// topic. Messages are keyed by booking id so all events for one booking
// land on the same partition in order.
type StreamObserver struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewStreamObserver(producer *kafka.Producer, source string, log *logger.Logger) *StreamObserver {
	return &StreamObserver{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (o *StreamObserver) Name() string { return "event-stream" }

func (o *StreamObserver) Notify(ctx context.Context, event Event) error {
	msg := kafka.NewMessage().
		WithKey(event.Booking.ID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(o.source).
		Build()

	return o.producer.Publish(ctx, msg)
}
