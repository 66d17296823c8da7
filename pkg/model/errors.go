package model

import "errors"

var (
	ErrInvalidInterval = errors.New("start time must be before end time")

	ErrBookingNotFound = errors.New("booking not found")
)
