package model

import (
	"fmt"
	"sort"
	"time"
)

// Room owns its bookings, keyed by booking id. No two owned bookings overlap
// as long as every AddBooking is preceded by a successful IsAvailable check
// for the same interval.
type Room struct {
	id       string
	bookings map[string]*Booking
}

func NewRoom(id string, bookings ...*Booking) *Room {
	r := &Room{
		id:       id,
		bookings: make(map[string]*Booking, len(bookings)),
	}
	for _, b := range bookings {
		r.bookings[b.ID()] = b
	}
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) IsAvailable(start, end time.Time) bool {
	for _, existing := range r.bookings {
		if existing.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// AddBooking stores b without re-checking availability; callers decide when
// to check.
func (r *Room) AddBooking(b *Booking) {
	r.bookings[b.ID()] = b
}

func (r *Room) HasBooking(id string) bool {
	_, ok := r.bookings[id]
	return ok
}

func (r *Room) GetBooking(id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s in room %s", ErrBookingNotFound, id, r.id)
	}
	return b, nil
}

func (r *Room) RemoveBooking(id string) error {
	if _, ok := r.bookings[id]; !ok {
		return fmt.Errorf("%w: %s in room %s", ErrBookingNotFound, id, r.id)
	}
	delete(r.bookings, id)
	return nil
}

// Bookings returns the owned bookings ordered by start time, then id.
func (r *Room) Bookings() []*Booking {
	out := make([]*Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].startTime.Equal(out[j].startTime) {
			return out[i].id < out[j].id
		}
		return out[i].startTime.Before(out[j].startTime)
	})
	return out
}

func (r *Room) BookingCount() int {
	return len(r.bookings)
}

// Clone copies the booking set. Bookings themselves are immutable and shared.
func (r *Room) Clone() *Room {
	c := &Room{
		id:       r.id,
		bookings: make(map[string]*Booking, len(r.bookings)),
	}
	for id, b := range r.bookings {
		c.bookings[id] = b
	}
	return c
}
