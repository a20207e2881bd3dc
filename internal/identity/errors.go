package identity

import "errors"

// Domain errors for authentication.
var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrNotReady     = errors.New("identity provider not ready")
)
