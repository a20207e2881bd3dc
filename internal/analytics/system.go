package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/intellisort/intellisort/internal/classifications"
	"github.com/intellisort/intellisort/pkg/pagination"
)

// systemSummaryKey caches the service-wide summary so dashboard polling does
// not rescan the full table on every request.
const systemSummaryKey = "system-summary"

// Overview combines a caller's summary with their most recent records.
type Overview struct {
	Summary Summary                          `json:"summary"`
	Recent  []classifications.Classification `json:"recent"`
}

// System defines the public contract for analytics operations.
type System interface {
	Handler() *Handler

	// ForUser aggregates over one caller's records.
	ForUser(ctx context.Context, userID string) (*Summary, error)

	// SystemWide aggregates over every record in the service. Results are
	// cached briefly; callers may observe a slightly stale summary.
	SystemWide(ctx context.Context) (*Summary, error)

	// Overview fetches a caller's summary and most recent records concurrently.
	Overview(ctx context.Context, userID string) (*Overview, error)
}

type system struct {
	source      classifications.System
	logger      *slog.Logger
	loc         *time.Location
	recentLimit int
	cache       *cache.Cache
}

// New creates an analytics system reading from the given record source.
func New(source classifications.System, logger *slog.Logger, cfg *Config) System {
	ttl := cfg.CacheTTLDuration()
	return &system{
		source:      source,
		logger:      logger.With("system", "analytics"),
		loc:         cfg.Location(),
		recentLimit: cfg.RecentLimit,
		cache:       cache.New(ttl, 2*ttl),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) ForUser(ctx context.Context, userID string) (*Summary, error) {
	records, err := s.source.Collect(ctx, classifications.Filters{UserID: &userID})
	if err != nil {
		return nil, err
	}

	summary := Aggregate(records, s.loc)
	return &summary, nil
}

func (s *system) SystemWide(ctx context.Context) (*Summary, error) {
	if cached, ok := s.cache.Get(systemSummaryKey); ok {
		return cached.(*Summary), nil
	}

	records, err := s.source.Collect(ctx, classifications.Filters{})
	if err != nil {
		return nil, err
	}

	summary := Aggregate(records, s.loc)
	s.cache.SetDefault(systemSummaryKey, &summary)
	return &summary, nil
}

func (s *system) Overview(ctx context.Context, userID string) (*Overview, error) {
	var (
		summary *Summary
		recent  []classifications.Classification
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summary, err = s.ForUser(ctx, userID)
		return err
	})

	g.Go(func() error {
		page := pagination.PageRequest{Page: 1, PageSize: s.recentLimit}
		result, err := s.source.List(ctx, page, classifications.Filters{UserID: &userID})
		if err != nil {
			return err
		}
		recent = result.Data
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{Summary: *summary, Recent: recent}, nil
}
