package notifier

import (
	"context"

	"roombooking/pkg/clock"
	"roombooking/pkg/kafka"
	"roombooking/pkg/logger"
	"roombooking/pkg/model"
)

const source = "rooms-service"

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes booking events keyed by room id, so all events for
// one room land on the same partition in order.
type KafkaNotifier struct {
	publisher Publisher
	clock     clock.Clock
	log       *logger.Logger
}

func NewKafkaNotifier(publisher Publisher, clk clock.Clock, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: publisher,
		clock:     clk,
		log:       log,
	}
}

func (n *KafkaNotifier) SendBookingConfirmation(ctx context.Context, roomID string, booking *model.Booking) error {
	return n.publish(ctx, EventBookingConfirmed, roomID, booking)
}

func (n *KafkaNotifier) SendCancellationConfirmation(ctx context.Context, roomID string, booking *model.Booking) error {
	return n.publish(ctx, EventBookingCancelled, roomID, booking)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType, roomID string, booking *model.Booking) error {
	now := n.clock.Now()
	msg, err := kafka.NewMessage().
		WithKey(roomID).
		WithValue(NewBookingEvent(eventType, roomID, booking, now)).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(source).
		WithCorrelationID(booking.ID()).
		WithTimestamp(now).
		Build()
	if err != nil {
		return notificationError(eventType, booking.ID(), err)
	}

	if err := n.publisher.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"room_id", roomID,
			"booking_id", booking.ID(),
			"error", err,
		)
		return notificationError(eventType, booking.ID(), err)
	}

	n.log.Debug("Published booking event",
		"event_type", eventType,
		"event_id", msg.GetEventID(),
		"room_id", roomID,
		"booking_id", booking.ID(),
	)
	return nil
}
