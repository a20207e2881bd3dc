package analytics

import (
	"errors"
	"net/http"
)

// ErrForbidden rejects non-admin access to system-wide analytics.
var ErrForbidden = errors.New("administrator role required")

// MapHTTPStatus maps analytics errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
