package notifier

import (
	"context"
	"fmt"
	"time"

	roomserrors "roombooking/internal/rooms/errors"
	"roombooking/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	SchemaVersion = "1"
)

// Notifier tells the outside world that a booking was committed or removed.
// It is only called after the room has been persisted.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, roomID string, booking *model.Booking) error
	SendCancellationConfirmation(ctx context.Context, roomID string, booking *model.Booking) error
}

// BookingEvent is the payload published for every notification.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType, roomID string, booking *model.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID(),
		RoomID:     roomID,
		StartTime:  booking.StartTime(),
		EndTime:    booking.EndTime(),
		OccurredAt: occurredAt,
	}
}

func (e BookingEvent) Validate() error {
	if e.Type != EventBookingConfirmed && e.Type != EventBookingCancelled {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.BookingID == "" || e.RoomID == "" {
		return fmt.Errorf("booking_id and room_id are required")
	}
	if !e.StartTime.Before(e.EndTime) {
		return roomserrors.ErrInvalidInterval
	}
	return nil
}

func notificationError(eventType, bookingID string, err error) error {
	return fmt.Errorf("%w: %s for booking %s: %v", roomserrors.ErrNotificationFailed, eventType, bookingID, err)
}
