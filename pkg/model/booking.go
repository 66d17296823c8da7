package model

import (
	"fmt"
	"time"
)

// Booking is one reservation of a room over the half-open interval
// [StartTime, EndTime). It is never modified after construction.
type Booking struct {
	id        string
	startTime time.Time
	endTime   time.Time
}

func NewBooking(id string, startTime, endTime time.Time) (*Booking, error) {
	if !startTime.Before(endTime) {
		return nil, fmt.Errorf("%w: start=%s end=%s", ErrInvalidInterval,
			startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))
	}
	return &Booking{id: id, startTime: startTime, endTime: endTime}, nil
}

func (b *Booking) ID() string { return b.id }

func (b *Booking) StartTime() time.Time { return b.startTime }

func (b *Booking) EndTime() time.Time { return b.endTime }

// Overlaps reports whether the booking intersects [start, end).
// Touching intervals do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.startTime.Before(end) && start.Before(b.endTime)
}

// StartsAfter reports whether the booking starts strictly after t.
func (b *Booking) StartsAfter(t time.Time) bool {
	return b.startTime.After(t)
}
