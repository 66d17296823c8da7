package errors

import (
	"errors"

	"roombooking/pkg/model"
)

var (
	ErrRoomNotFound = errors.New("room not found")

	// Entity errors are owned by pkg/model so both layers share one value.
	ErrBookingNotFound = model.ErrBookingNotFound
	ErrInvalidInterval = model.ErrInvalidInterval

	ErrPastBooking = errors.New("cannot cancel a booking that has already started")

	ErrNotificationFailed = errors.New("booking notification failed")
)
