package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

var errRoomSentinel = errors.New("room sentinel")

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "Room not found"},
			expected: "NOT_FOUND: Room not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "Failed to save room",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: Failed to save room (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{name: "not found with id", err: NotFoundWithID("Booking", "b1"), code: CodeNotFound, status: http.StatusNotFound},
		{name: "invalid input", err: InvalidInput("bad"), code: CodeInvalidInput, status: http.StatusBadRequest},
		{name: "conflict", err: Conflict("taken"), code: CodeConflict, status: http.StatusConflict},
		{name: "internal", err: Internal("boom", nil), code: CodeInternal, status: http.StatusInternalServerError},
		{name: "timeout", err: Timeout("slow"), code: CodeTimeout, status: http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "b-42")

	if err.Details["id"] != "b-42" {
		t.Errorf("expected id 'b-42', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestWithCause_ExposesSentinel(t *testing.T) {
	err := Conflict("Booking has already started").WithCause(errRoomSentinel)

	if !errors.Is(err, errRoomSentinel) {
		t.Error("expected errors.Is to find the sentinel through the AppError")
	}

	wrapped := fmt.Errorf("cancel: %w", err)
	if AsAppError(wrapped) != err {
		t.Error("expected AsAppError to return the wrapped AppError")
	}
}

func TestAsAppError_WrapsPlainErrors(t *testing.T) {
	plain := errors.New("plain")
	result := AsAppError(plain)

	if result.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, result.Code)
	}
	if !errors.Is(result, plain) {
		t.Error("expected the original error to be preserved")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	data := NotFoundWithID("Room", "room1").ToJSON()

	var decoded ErrorResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("ToJSON produced invalid JSON: %v", err)
	}
	if decoded.Code != CodeNotFound || decoded.Message != "Room not found" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, InvalidInput("end_time must be after start_time"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var decoded ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Code != CodeInvalidInput {
		t.Errorf("expected code %s, got %s", CodeInvalidInput, decoded.Code)
	}
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, errors.New("socket closed")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	var decoded ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Code != CodeInternal || decoded.Message != "An unexpected error occurred" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}
