package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	roomserrors "roombooking/internal/rooms/errors"
	"roombooking/internal/rooms/notifier"
	"roombooking/internal/rooms/repository"
	"roombooking/pkg/clock"
	apperrors "roombooking/pkg/errors"
	"roombooking/pkg/logger"
	"roombooking/pkg/model"

	"github.com/google/uuid"
)

// RoomService coordinates bookings across rooms.
//
// Every mutating call runs load, check, mutate, save, notify in that order.
// Rooms are saved last-writer-wins: two service instances booking the same
// room concurrently can both pass the availability check before either
// saves. Callers must keep a single writer per room.
type RoomService interface {
	// Reserve books [start, end) in the room and returns the new booking, or
	// nil when the room is unknown or the interval is taken.
	Reserve(ctx context.Context, roomID string, start, end time.Time) (*model.Booking, error)
	BookRoom(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	// GetAvailableRooms does not validate the interval.
	GetAvailableRooms(ctx context.Context, start, end time.Time) ([]*model.Room, error)
	CancelBooking(ctx context.Context, bookingID string) (bool, error)
	GetRoom(ctx context.Context, roomID string) (*model.Room, error)
}

type Option func(*roomService)

// WithIDGenerator replaces the booking id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *roomService) {
		s.newID = newID
	}
}

type roomService struct {
	repo     repository.RoomRepository
	notifier notifier.Notifier
	clock    clock.Clock
	newID    func() string
	log      *logger.Logger
}

func NewRoomService(
	repo repository.RoomRepository,
	notifier notifier.Notifier,
	clk clock.Clock,
	log *logger.Logger,
	opts ...Option,
) RoomService {
	s := &roomService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		newID:    uuid.NewString,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *roomService) BookRoom(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	booking, err := s.Reserve(ctx, roomID, start, end)
	return booking != nil, err
}

func (s *roomService) Reserve(ctx context.Context, roomID string, start, end time.Time) (*model.Booking, error) {
	now := s.clock.Now()
	if err := validateInterval(start, end, now); err != nil {
		return nil, err
	}

	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			s.log.Warn("Booking rejected: unknown room", "room_id", roomID)
			return nil, nil
		}
		s.log.Error("Failed to load room", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to load room", err)
	}

	if !room.IsAvailable(start, end) {
		s.log.Warn("Booking rejected: interval unavailable",
			"room_id", roomID,
			"start_time", start,
			"end_time", end,
		)
		return nil, nil
	}

	// The interval was validated above; a failure here is a broken invariant.
	booking, err := model.NewBooking(s.newID(), start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to create booking", err)
	}
	room.AddBooking(booking)

	if err := s.repo.Save(ctx, room); err != nil {
		s.log.Error("Failed to save room", "room_id", roomID, "booking_id", booking.ID(), "error", err)
		return nil, apperrors.Internal("Failed to save booking", err)
	}

	s.log.Info("Booking created successfully",
		"room_id", roomID,
		"booking_id", booking.ID(),
		"start_time", start,
		"end_time", end,
	)

	if err := s.notifier.SendBookingConfirmation(ctx, roomID, booking); err != nil {
		s.log.Warn("Booking persisted but confirmation failed",
			"room_id", roomID,
			"booking_id", booking.ID(),
			"error", err,
		)
		return booking, err
	}
	return booking, nil
}

// validateInterval rejects empty or inverted intervals and intervals that
// start before now. A booking may start exactly at now.
func validateInterval(start, end, now time.Time) error {
	details := map[string]any{
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
	if !start.Before(end) {
		return apperrors.InvalidInput("start_time must be before end_time").
			WithCause(roomserrors.ErrInvalidInterval).
			WithDetails(details)
	}
	if start.Before(now) {
		details["now"] = now.Format(time.RFC3339)
		return apperrors.InvalidInput("start_time must not be in the past").
			WithCause(roomserrors.ErrInvalidInterval).
			WithDetails(details)
	}
	return nil
}

func (s *roomService) GetAvailableRooms(ctx context.Context, start, end time.Time) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.IsAvailable(start, end) {
			available = append(available, room)
		}
	}
	return available, nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID).WithCause(err)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *roomService) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	room, err := s.findOwner(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to look up booking owner", "booking_id", bookingID, "error", err)
		return false, apperrors.Internal("Failed to look up booking", err)
	}
	if room == nil {
		s.log.Warn("Cancellation ignored: no room owns booking", "booking_id", bookingID)
		return false, nil
	}

	booking, err := room.GetBooking(bookingID)
	if err != nil {
		return false, apperrors.NotFoundWithID("Booking", bookingID).WithCause(err)
	}

	now := s.clock.Now()
	if !booking.StartsAfter(now) {
		s.log.Warn("Cancellation rejected: booking already started",
			"room_id", room.ID(),
			"booking_id", bookingID,
			"start_time", booking.StartTime(),
		)
		return false, apperrors.Conflict("Booking has already started and cannot be cancelled").
			WithCause(roomserrors.ErrPastBooking).
			WithDetails(map[string]any{
				"booking_id": bookingID,
				"start_time": booking.StartTime().Format(time.RFC3339),
				"now":        now.Format(time.RFC3339),
			})
	}

	if err := room.RemoveBooking(bookingID); err != nil {
		return false, apperrors.NotFoundWithID("Booking", bookingID).WithCause(err)
	}

	if err := s.repo.Save(ctx, room); err != nil {
		s.log.Error("Failed to save room", "room_id", room.ID(), "booking_id", bookingID, "error", err)
		return false, apperrors.Internal("Failed to cancel booking", err)
	}

	s.log.Info("Booking cancelled successfully", "room_id", room.ID(), "booking_id", bookingID)

	if err := s.notifier.SendCancellationConfirmation(ctx, room.ID(), booking); err != nil {
		s.log.Warn("Booking cancelled but confirmation failed",
			"room_id", room.ID(),
			"booking_id", bookingID,
			"error", err,
		)
		return true, err
	}
	return true, nil
}

// findOwner returns the room holding bookingID, or nil when none does. Stores
// that index bookings answer directly; others are scanned in order.
func (s *roomService) findOwner(ctx context.Context, bookingID string) (*model.Room, error) {
	if locator, ok := s.repo.(repository.BookingLocator); ok {
		room, err := locator.FindByBookingID(ctx, bookingID)
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find by booking id: %w", err)
		}
		if !room.HasBooking(bookingID) {
			return nil, nil
		}
		return room, nil
	}

	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all rooms: %w", err)
	}
	for _, room := range rooms {
		if room.HasBooking(bookingID) {
			return room, nil
		}
	}
	return nil, nil
}
