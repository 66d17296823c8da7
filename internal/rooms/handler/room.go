package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	roomserrors "roombooking/internal/rooms/errors"
	"roombooking/internal/rooms/service"
	"roombooking/internal/rooms/validator"
	apperrors "roombooking/pkg/errors"
	httputil "roombooking/pkg/http"
	"roombooking/pkg/logger"
	"roombooking/pkg/model"
	"roombooking/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type BookingResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type RoomResponse struct {
	ID       string            `json:"id"`
	Bookings []BookingResponse `json:"bookings"`
}

type CancelResponse struct {
	BookingID string `json:"booking_id"`
	Cancelled bool   `json:"cancelled"`
}

type bookRoomBody struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func toBookingResponse(roomID string, b *model.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID(),
		RoomID:    roomID,
		StartTime: b.StartTime(),
		EndTime:   b.EndTime(),
	}
}

func toRoomResponse(room *model.Room) RoomResponse {
	bookings := room.Bookings()
	resp := RoomResponse{
		ID:       room.ID(),
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(room.ID(), b))
	}
	return resp
}

type RoomHandler struct {
	service   service.RoomService
	validator *validator.RoomValidator
	log       *logger.Logger
}

func NewRoomHandler(service service.RoomService, validator *validator.RoomValidator, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

func (h *RoomHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body bookRoomBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Book", apperrors.InvalidInput("Invalid request body"))
		return
	}

	req := validator.BookRoomRequest{
		RoomID:    sanitizer.SanitizeID(ps.ByName("id")),
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	}
	if err := h.validator.ValidateBookRoom(&req); err != nil {
		h.writeError(w, "Book", validationError(err))
		return
	}

	booking, err := h.service.Reserve(r.Context(), req.RoomID, req.StartTime, req.EndTime)
	if booking == nil {
		if err == nil {
			err = apperrors.Conflict("Room is unknown or not available for the requested interval").
				WithDetails(map[string]any{"room_id": req.RoomID})
		}
		h.writeError(w, "Book", err)
		return
	}

	var warnings []string
	if err != nil {
		warnings = append(warnings, "booking confirmed but notification failed")
	}
	if writeErr := httputil.WriteCreated(w, toBookingResponse(req.RoomID, booking), warnings...); writeErr != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", writeErr)
	}
}

func (h *RoomHandler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, err := httputil.ParseTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}
	end, err := httputil.ParseTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	query := validator.AvailabilityQuery{StartTime: start, EndTime: end}
	if err := h.validator.ValidateAvailability(&query); err != nil {
		h.writeError(w, "Available", validationError(err))
		return
	}

	rooms, err := h.service.GetAvailableRooms(r.Context(), query.StartTime, query.EndTime)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	resp := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, toRoomResponse(room))
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Available", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetRoom(r.Context(), sanitizer.SanitizeID(ps.ByName("id")))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, toRoomResponse(room)); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := validator.CancelBookingRequest{BookingID: sanitizer.SanitizeID(ps.ByName("id"))}
	if err := h.validator.ValidateCancel(&req); err != nil {
		h.writeError(w, "Cancel", validationError(err))
		return
	}

	cancelled, err := h.service.CancelBooking(r.Context(), req.BookingID)
	switch {
	case cancelled && err != nil:
		if writeErr := httputil.WriteJSON(w, http.StatusOK, httputil.SuccessResponse{
			Data:     CancelResponse{BookingID: req.BookingID, Cancelled: true},
			Warnings: []string{"booking cancelled but notification failed"},
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", writeErr)
		}
	case cancelled:
		httputil.WriteNoContent(w)
	case err != nil:
		h.writeError(w, "Cancel", err)
	default:
		h.writeError(w, "Cancel", apperrors.NotFoundWithID("Booking", req.BookingID).WithCause(roomserrors.ErrBookingNotFound))
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.InvalidInput("Invalid request").WithCause(err)
	}
	if verrs.HasIntervalError() {
		return apperrors.InvalidInput("start_time must be before end_time").
			WithCause(roomserrors.ErrInvalidInterval).
			WithDetails(verrs.Details())
	}
	return apperrors.InvalidInput("Invalid request").WithCause(verrs).WithDetails(verrs.Details())
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms/available", h.Available)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.POST("/api/v1/rooms/id/:id/bookings", h.Book)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
}
