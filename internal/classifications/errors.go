package classifications

import (
	"errors"
	"net/http"

	"github.com/intellisort/intellisort/internal/classifier"
)

// Domain errors for classification operations.
var (
	ErrNotFound      = errors.New("classification not found")
	ErrDuplicate     = errors.New("classification already exists")
	ErrUnauthorized  = errors.New("no authenticated caller")
	ErrNoImage       = errors.New("no image provided")
	ErrInvalidResult = errors.New("classifier returned an invalid result")
	ErrPersistence   = errors.New("failed to store classification")
)

// MapHTTPStatus maps classification domain errors to HTTP status codes.
// Classifier failures map to 502: the upstream collaborator failed, not this
// service and not the caller.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNoImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, classifier.ErrUnavailable), errors.Is(err, ErrInvalidResult):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
