package classifications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/intellisort/intellisort/internal/classifier"
	"github.com/intellisort/intellisort/internal/identity"
	"github.com/intellisort/intellisort/pkg/pagination"
	"github.com/intellisort/intellisort/pkg/query"
	"github.com/intellisort/intellisort/pkg/repository"
)

type repo struct {
	db         *sql.DB
	gateway    classifier.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a classification repository implementing the System interface.
func New(
	db *sql.DB,
	gateway classifier.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		gateway:    gateway,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "WasteCategory", "DisposalType", "Tip")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Collect(ctx context.Context, filters Filters) ([]Classification, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("collect classifications: %w", err)
	}

	return items, nil
}

func (r *repo) Classify(
	ctx context.Context,
	caller identity.Principal,
	cmd ClassifyCommand,
) (*Classification, error) {
	// middleware guarantees an authenticated caller; guard anyway since
	// user_id must never be empty on a persisted record
	if caller.Subject == "" {
		return nil, ErrUnauthorized
	}
	if cmd.Image == "" {
		return nil, ErrNoImage
	}

	result, err := r.gateway.Classify(ctx, cmd.Image)
	if err != nil {
		return nil, fmt.Errorf("classify image: %w", err)
	}

	if result.Confidence != nil && (*result.Confidence < 0 || *result.Confidence > 1) {
		return nil, fmt.Errorf(
			"%w: confidence %v outside [0,1]",
			ErrInvalidResult, *result.Confidence,
		)
	}

	insertQ := `
		INSERT INTO waste_classifications(
			user_id, waste_category, disposal_type, confidence, tip, image_ref
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, waste_category, disposal_type, confidence,
				  tip, image_ref, created_at`

	insertArgs := []any{
		caller.Subject,
		result.WasteCategory,
		result.DisposalType,
		result.Confidence,
		result.Tip,
		imageRef(cmd.Image),
	}

	c, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	r.logger.Info("classification recorded",
		"id", c.ID,
		"user_id", c.UserID,
		"waste_category", c.WasteCategory,
		"disposal_type", c.DisposalType,
	)
	return &c, nil
}
