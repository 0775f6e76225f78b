package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftline/driftline/internal/content"
	"github.com/driftline/driftline/internal/profile"
)

// Defaults for feed assembly knobs.
const (
	DefaultLimit           = 20
	DefaultCandidateWindow = 48 * time.Hour
	DefaultPoolSize        = 500
)

// Service assembles personalized feeds: it builds the viewer's interest
// profile, fetches the candidate pool, ranks, samples for variety, and
// re-hydrates the sampled items so callers see fresh state.
type Service struct {
	repo    content.Repository
	builder *profile.Builder
	ranker  *Ranker
	logger  *slog.Logger
	metrics *PromMetrics
	tracer  trace.Tracer

	limit    int
	window   time.Duration
	poolSize int
	seedFn   func() int64
}

// ServiceOption configures optional Service behavior.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches feed pipeline metrics.
func WithMetrics(m *PromMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFeedLimit sets the default number of items per feed.
func WithFeedLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithCandidateWindow bounds how far back candidates are fetched.
func WithCandidateWindow(window time.Duration) ServiceOption {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithPoolSize caps the candidate pool fetched per request.
func WithPoolSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.poolSize = size
		}
	}
}

// WithSeedFunc overrides the sampler seed source. Tests use a fixed seed
// for reproducible draws.
func WithSeedFunc(fn func() int64) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.seedFn = fn
		}
	}
}

// NewService creates a feed service.
func NewService(repo content.Repository, builder *profile.Builder, ranker *Ranker, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		builder:  builder,
		ranker:   ranker,
		logger:   slog.Default(),
		tracer:   otel.Tracer("driftline/feed"),
		limit:    DefaultLimit,
		window:   DefaultCandidateWindow,
		poolSize: DefaultPoolSize,
		seedFn:   func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed assembles a personalized feed for the viewer. A non-positive limit
// uses the service default.
func (s *Service) Feed(ctx context.Context, viewerID string, limit int) ([]ScoredItem, error) {
	start := time.Now()
	if limit <= 0 {
		limit = s.limit
	}

	ctx, span := s.tracer.Start(ctx, "feed.assemble",
		trace.WithAttributes(
			attribute.String("viewer.id", viewerID),
			attribute.Int("feed.limit", limit),
		))
	defer span.End()

	p, err := s.buildProfile(ctx, viewerID)
	if err != nil {
		s.observe("profile_error", start, 0, 0)
		return nil, err
	}

	pool, err := s.fetchCandidates(ctx, viewerID)
	if err != nil {
		s.observe("pool_error", start, 0, 0)
		return nil, fmt.Errorf("fetch candidate pool: %w", err)
	}
	span.SetAttributes(attribute.Int("feed.pool_size", len(pool)))

	now := time.Now()
	ranked := s.rank(ctx, p, pool, now)
	sampled := Sample(ranked, limit, rand.New(rand.NewSource(s.seedFn())))

	result, err := s.hydrate(ctx, sampled)
	if err != nil {
		s.observe("hydrate_error", start, len(pool), 0)
		return nil, fmt.Errorf("hydrate sampled items: %w", err)
	}

	s.logger.Debug("feed assembled",
		"viewer_id", viewerID,
		"pool_size", len(pool),
		"ranked", len(ranked),
		"served", len(result),
		"elapsed", time.Since(start),
	)
	s.observe("ok", start, len(pool), len(result))
	return result, nil
}

func (s *Service) buildProfile(ctx context.Context, viewerID string) (*profile.InterestProfile, error) {
	ctx, span := s.tracer.Start(ctx, "feed.build_profile")
	defer span.End()
	return s.builder.Build(ctx, viewerID)
}

func (s *Service) fetchCandidates(ctx context.Context, viewerID string) ([]content.CandidateItem, error) {
	ctx, span := s.tracer.Start(ctx, "feed.fetch_candidates")
	defer span.End()
	return s.repo.CandidatePool(ctx, viewerID, time.Now().Add(-s.window), s.poolSize)
}

func (s *Service) rank(ctx context.Context, p *profile.InterestProfile, pool []content.CandidateItem, now time.Time) []ScoredItem {
	_, span := s.tracer.Start(ctx, "feed.rank",
		trace.WithAttributes(attribute.Int("feed.candidates", len(pool))))
	defer span.End()
	return s.ranker.Rank(p, pool, now)
}

// hydrate refreshes sampled items from the repository while keeping the
// sampled order and score breakdowns. Items deleted since pool fetch drop
// out here.
func (s *Service) hydrate(ctx context.Context, sampled []ScoredItem) ([]ScoredItem, error) {
	if len(sampled) == 0 {
		return []ScoredItem{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "feed.hydrate")
	defer span.End()

	ids := make([]string, len(sampled))
	for i, si := range sampled {
		ids[i] = si.Item.ID
	}

	fresh, err := s.repo.HydrateItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]content.CandidateItem, len(fresh))
	for _, item := range fresh {
		byID[item.ID] = item
	}

	result := make([]ScoredItem, 0, len(sampled))
	for _, si := range sampled {
		item, ok := byID[si.Item.ID]
		if !ok {
			continue
		}
		si.Item = item
		result = append(result, si)
	}
	return result, nil
}

func (s *Service) observe(status string, start time.Time, poolSize, served int) {
	s.metrics.ObserveRequest(status, time.Since(start), poolSize, served)
}
