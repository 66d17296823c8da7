package notifier

import (
	"context"

	"roombooking/pkg/logger"
	"roombooking/pkg/model"
)

// LogNotifier writes notifications to the service log. Used when no broker
// is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendBookingConfirmation(ctx context.Context, roomID string, booking *model.Booking) error {
	return n.send(ctx, EventBookingConfirmed, roomID, booking)
}

func (n *LogNotifier) SendCancellationConfirmation(ctx context.Context, roomID string, booking *model.Booking) error {
	return n.send(ctx, EventBookingCancelled, roomID, booking)
}

func (n *LogNotifier) send(ctx context.Context, eventType, roomID string, booking *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return notificationError(eventType, booking.ID(), err)
	}
	n.log.Info("Booking notification",
		"event_type", eventType,
		"room_id", roomID,
		"booking_id", booking.ID(),
		"start_time", booking.StartTime(),
		"end_time", booking.EndTime(),
	)
	return nil
}
