// Package classifier implements the gateway to the external waste image
// classifier. It owns the outbound call, transport-failure translation, and
// normalization of the loosely-typed upstream response; it never persists
// anything.
package classifier

import (
	"context"

	"github.com/intellisort/intellisort/pkg/lifecycle"
)

// Result is the normalized outcome of one classifier call. Every field is
// nullable: the upstream contract makes no field mandatory, and a missing
// value is represented as nil rather than coerced to a placeholder. A missing
// confidence means "unknown", never 0.
type Result struct {
	WasteCategory *string  `json:"waste_category"`
	DisposalType  *string  `json:"disposal_type"`
	Confidence    *float64 `json:"confidence"`
	Tip           *string  `json:"tip"`
}

// System defines the public contract of the classifier gateway.
type System interface {
	// Start registers a startup hook that probes the classifier health endpoint.
	Start(lc *lifecycle.Coordinator) error
	// Classify submits an encoded image payload and returns the normalized
	// result. Transport failures, timeouts, and non-2xx responses all surface
	// as ErrUnavailable.
	Classify(ctx context.Context, image string) (*Result, error)
	// Ping probes the classifier health endpoint.
	Ping(ctx context.Context) error
}
