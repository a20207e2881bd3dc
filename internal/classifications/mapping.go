package classifications

import (
	"net/url"

	"github.com/intellisort/intellisort/pkg/query"
	"github.com/intellisort/intellisort/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "waste_classifications", "wc").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("waste_category", "WasteCategory").
	Project("disposal_type", "DisposalType").
	Project("confidence", "Confidence").
	Project("tip", "Tip").
	Project("image_ref", "ImageRef").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	UserID        *string `json:"user_id,omitempty"`
	WasteCategory *string `json:"waste_category,omitempty"`
	DisposalType  *string `json:"disposal_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereEquals("WasteCategory", f.WasteCategory).
		WhereEquals("DisposalType", f.DisposalType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("user_id"); u != "" {
		f.UserID = &u
	}
	if c := values.Get("waste_category"); c != "" {
		f.WasteCategory = &c
	}
	if d := values.Get("disposal_type"); d != "" {
		f.DisposalType = &d
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification

	err := s.Scan(
		&c.ID,
		&c.UserID,
		&c.WasteCategory,
		&c.DisposalType,
		&c.Confidence,
		&c.Tip,
		&c.ImageRef,
		&c.CreatedAt,
	)

	return c, err
}
