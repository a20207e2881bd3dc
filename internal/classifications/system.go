package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/intellisort/intellisort/internal/identity"
	"github.com/intellisort/intellisort/pkg/pagination"
)

// System defines the public contract for classification domain operations.
// Records are append-only: there are no update or delete operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Classification], error)

	Find(ctx context.Context, id uuid.UUID) (*Classification, error)

	// Collect returns the full matching record collection, newest first,
	// for consumption by the aggregation engine.
	Collect(ctx context.Context, filters Filters) ([]Classification, error)

	// Classify runs one submission end to end: validates the payload, invokes
	// the classifier gateway, and persists the normalized result owned by the
	// caller. Exactly one record is created per successful call.
	Classify(ctx context.Context, caller identity.Principal, cmd ClassifyCommand) (*Classification, error)
}
