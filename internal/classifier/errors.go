package classifier

import "errors"

// ErrUnavailable indicates the external classifier was unreachable, timed
// out, or returned a non-success response. The wrapped message carries the
// upstream status and body for diagnostics.
var ErrUnavailable = errors.New("classification service unavailable")
