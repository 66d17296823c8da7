package errors

import (
	"net/http"
)

// WriteError renders err as an ErrorResponse. Errors that carry no AppError
// are reported as 500.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	_, writeErr := w.Write(appErr.ToJSON())
	return writeErr
}
