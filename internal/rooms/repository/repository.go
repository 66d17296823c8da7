package repository

import (
	"context"

	"roombooking/pkg/model"
)

// RoomRepository persists Room aggregates. Save is last-writer-wins per room.
type RoomRepository interface {
	// FindByID returns roomserrors.ErrRoomNotFound when no room has the id.
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindAll(ctx context.Context) ([]*model.Room, error)
	Save(ctx context.Context, room *model.Room) error
}

// BookingLocator is implemented by stores that can resolve the room owning a
// booking without scanning every room.
type BookingLocator interface {
	// FindByBookingID returns roomserrors.ErrRoomNotFound when no room owns
	// the booking.
	FindByBookingID(ctx context.Context, bookingID string) (*model.Room, error)
}
