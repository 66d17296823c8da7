package http

import (
	"net/http"
	"time"

	apperrors "roombooking/pkg/errors"
)

// ParseTimeParam reads an RFC3339 query parameter. A missing parameter yields
// the zero time so struct validation can report it.
func ParseTimeParam(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " format, must be RFC3339").WithCause(err)
	}
	return t, nil
}
