package notifier

import (
	"context"

	"roombooking/pkg/kafka"
	"roombooking/pkg/logger"
)

// NewDeliveryHandler consumes booking events and delivers them to the
// recipient channel, which is currently the worker log. Undecodable or
// invalid events are permanent failures and go to the DLQ.
func NewDeliveryHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		if err := event.Validate(); err != nil {
			return kafka.NewPermanentError("invalid booking event", err)
		}
		if err := ctx.Err(); err != nil {
			return kafka.NewTransientError("delivery interrupted", err)
		}

		log.Info("Delivered booking notification",
			"event_id", msg.GetEventID(),
			"event_type", event.Type,
			"room_id", event.RoomID,
			"booking_id", event.BookingID,
			"start_time", event.StartTime,
			"end_time", event.EndTime,
		)
		return nil
	}
}
