package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	roomserrors "roombooking/internal/rooms/errors"
	"roombooking/internal/rooms/validator"
	apperrors "roombooking/pkg/errors"
	httputil "roombooking/pkg/http"
	"roombooking/pkg/logger"
	"roombooking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoomService struct {
	reserveFunc           func(ctx context.Context, roomID string, start, end time.Time) (*model.Booking, error)
	getAvailableRoomsFunc func(ctx context.Context, start, end time.Time) ([]*model.Room, error)
	cancelBookingFunc     func(ctx context.Context, bookingID string) (bool, error)
	getRoomFunc           func(ctx context.Context, roomID string) (*model.Room, error)
}

func (m *mockRoomService) Reserve(ctx context.Context, roomID string, start, end time.Time) (*model.Booking, error) {
	if m.reserveFunc != nil {
		return m.reserveFunc(ctx, roomID, start, end)
	}
	return nil, nil
}

func (m *mockRoomService) BookRoom(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	b, err := m.Reserve(ctx, roomID, start, end)
	return b != nil, err
}

func (m *mockRoomService) GetAvailableRooms(ctx context.Context, start, end time.Time) ([]*model.Room, error) {
	if m.getAvailableRoomsFunc != nil {
		return m.getAvailableRoomsFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *mockRoomService) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	if m.cancelBookingFunc != nil {
		return m.cancelBookingFunc(ctx, bookingID)
	}
	return false, nil
}

func (m *mockRoomService) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	if m.getRoomFunc != nil {
		return m.getRoomFunc(ctx, roomID)
	}
	return nil, apperrors.NotFoundWithID("Room", roomID)
}

var start = time.Date(2024, 2, 1, 13, 0, 0, 0, time.UTC)

func newRouter(svc *mockRoomService) *httprouter.Router {
	log := logger.Discard()
	router := httprouter.New()
	NewRoomHandler(svc, validator.NewRoomValidator(log), log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bookBody(s, e time.Time) string {
	return fmt.Sprintf(`{"start_time":%q,"end_time":%q}`, s.Format(time.RFC3339), e.Format(time.RFC3339))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestBook(t *testing.T) {
	booking, err := model.NewBooking("b1", start, start.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name         string
		body         string
		reserve      func(ctx context.Context, roomID string, s, e time.Time) (*model.Booking, error)
		expectStatus int
		expectCode   string
		expectWarn   bool
	}{
		{
			name: "created",
			body: bookBody(start, start.Add(time.Hour)),
			reserve: func(_ context.Context, roomID string, _, _ time.Time) (*model.Booking, error) {
				return booking, nil
			},
			expectStatus: http.StatusCreated,
		},
		{
			name: "notification failed after commit",
			body: bookBody(start, start.Add(time.Hour)),
			reserve: func(context.Context, string, time.Time, time.Time) (*model.Booking, error) {
				return booking, roomserrors.ErrNotificationFailed
			},
			expectStatus: http.StatusCreated,
			expectWarn:   true,
		},
		{
			name: "unavailable",
			body: bookBody(start, start.Add(time.Hour)),
			reserve: func(context.Context, string, time.Time, time.Time) (*model.Booking, error) {
				return nil, nil
			},
			expectStatus: http.StatusConflict,
			expectCode:   apperrors.CodeConflict,
		},
		{
			name:         "inverted interval",
			body:         bookBody(start, start.Add(-time.Hour)),
			expectStatus: http.StatusBadRequest,
			expectCode:   apperrors.CodeInvalidInput,
		},
		{
			name:         "missing end",
			body:         fmt.Sprintf(`{"start_time":%q}`, start.Format(time.RFC3339)),
			expectStatus: http.StatusBadRequest,
			expectCode:   apperrors.CodeInvalidInput,
		},
		{
			name:         "malformed body",
			body:         `{"start_time":`,
			expectStatus: http.StatusBadRequest,
			expectCode:   apperrors.CodeInvalidInput,
		},
		{
			name: "store failure",
			body: bookBody(start, start.Add(time.Hour)),
			reserve: func(context.Context, string, time.Time, time.Time) (*model.Booking, error) {
				return nil, apperrors.Internal("Failed to save booking", errors.New("disk full"))
			},
			expectStatus: http.StatusInternalServerError,
			expectCode:   apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockRoomService{reserveFunc: func(ctx context.Context, roomID string, s, e time.Time) (*model.Booking, error) {
				called = true
				assert.Equal(t, "room1", roomID)
				return tt.reserve(ctx, roomID, s, e)
			}}

			w := serve(newRouter(svc), http.MethodPost, "/api/v1/rooms/id/room1/bookings", tt.body)
			require.Equal(t, tt.expectStatus, w.Code, w.Body.String())

			if tt.expectCode != "" {
				assert.Equal(t, tt.expectCode, decodeError(t, w).Code)
				assert.Equal(t, tt.reserve != nil, called, "service is only reached after validation")
				return
			}

			var resp struct {
				Data     BookingResponse `json:"data"`
				Warnings []string        `json:"warnings"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "b1", resp.Data.ID)
			assert.Equal(t, "room1", resp.Data.RoomID)
			assert.Equal(t, tt.expectWarn, len(resp.Warnings) > 0)
		})
	}
}

func TestAvailable(t *testing.T) {
	var gotStart, gotEnd time.Time
	svc := &mockRoomService{getAvailableRoomsFunc: func(_ context.Context, s, e time.Time) ([]*model.Room, error) {
		gotStart, gotEnd = s, e
		return []*model.Room{model.NewRoom("b"), model.NewRoom("a")}, nil
	}}
	router := newRouter(svc)

	target := "/api/v1/rooms/available?start_time=2024-02-01T13:00:00Z&end_time=2024-02-01T14:00:00Z"
	w := serve(router, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []RoomResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "b", resp.Data[0].ID, "service order is preserved")
	assert.Equal(t, "a", resp.Data[1].ID)
	assert.True(t, gotStart.Equal(start))
	assert.True(t, gotEnd.Equal(start.Add(time.Hour)))

	w = serve(router, http.MethodGet, "/api/v1/rooms/available?start_time=yesterday&end_time=2024-02-01T14:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/rooms/available?start_time=2024-02-01T13:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByID(t *testing.T) {
	b, err := model.NewBooking("b1", start, start.Add(time.Hour))
	require.NoError(t, err)
	svc := &mockRoomService{getRoomFunc: func(_ context.Context, id string) (*model.Room, error) {
		if id != "room1" {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		return model.NewRoom("room1", b), nil
	}}
	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/rooms/id/room1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data RoomResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Data.Bookings, 1)
	assert.Equal(t, "b1", resp.Data.Bookings[0].ID)

	w = serve(router, http.MethodGet, "/api/v1/rooms/id/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name         string
		cancel       func(context.Context, string) (bool, error)
		expectStatus int
	}{
		{
			name:         "cancelled",
			cancel:       func(context.Context, string) (bool, error) { return true, nil },
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "cancelled with notification failure",
			cancel:       func(context.Context, string) (bool, error) { return true, roomserrors.ErrNotificationFailed },
			expectStatus: http.StatusOK,
		},
		{
			name:         "not owned by any room",
			cancel:       func(context.Context, string) (bool, error) { return false, nil },
			expectStatus: http.StatusNotFound,
		},
		{
			name: "already started",
			cancel: func(context.Context, string) (bool, error) {
				return false, apperrors.Conflict("Booking has already started").WithCause(roomserrors.ErrPastBooking)
			},
			expectStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockRoomService{cancelBookingFunc: tt.cancel})
			w := serve(router, http.MethodDelete, "/api/v1/bookings/id/b1", "")
			assert.Equal(t, tt.expectStatus, w.Code, w.Body.String())

			if tt.expectStatus == http.StatusOK {
				var resp httputil.SuccessResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.NotEmpty(t, resp.Warnings)
			}
		})
	}
}
