// Package classifications implements the classification-record domain for
// IntelliSort. It provides types, data access, and the ingestion flow that
// turns a submitted image into a persisted, immutable classification record.
package classifications

import (
	"time"

	"github.com/google/uuid"
)

// Classification is the persisted outcome of one image submission. It mirrors
// the waste_classifications table schema. ID and CreatedAt are assigned by the
// storage layer at insert time and never by callers; records are immutable
// once created.
type Classification struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	WasteCategory *string   `json:"waste_category"`
	DisposalType  *string   `json:"disposal_type"`
	Confidence    *float64  `json:"confidence"`
	Tip           *string   `json:"tip"`
	ImageRef      *string   `json:"image_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ClassifyCommand carries one classification submission.
// Image is an encoded (typically base64 data-URL) photo payload.
type ClassifyCommand struct {
	Image string `json:"image"`
}

// imageRefLimit bounds the stored image descriptor. Only this prefix of the
// submitted payload is ever retained; the payload itself is not persisted.
const imageRefLimit = 100

func imageRef(image string) *string {
	ref := image
	if len(ref) > imageRefLimit {
		ref = ref[:imageRefLimit]
	}
	return &ref
}
