package article

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"articles-api/internal/domain/entity"
	"articles-api/internal/infra/cache"
	"articles-api/internal/observability/logging"
	"articles-api/internal/observability/metrics"
	"articles-api/internal/observability/tracing"
	"articles-api/internal/pkg/changes"
	"articles-api/internal/repository"
)

// IndexCacheTag groups every cached search listing. Any successful mutation flushes it.
const IndexCacheTag = "api.articles.index"

// TxManager runs fn inside one database transaction, committing on nil and
// rolling back on any error, which it returns unchanged.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides article management use cases.
type Service struct {
	repo     repository.ArticleRepository
	tx       TxManager
	cache    *cache.Cache
	detector changes.Detector
	ttl      time.Duration
}

// Option customises a Service.
type Option func(*Service)

// WithDetector replaces the strict change detector.
func WithDetector(d changes.Detector) Option {
	return func(s *Service) { s.detector = d }
}

// WithCacheTTL sets the lifetime of cached search listings.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewService wires the service to its collaborators.
func NewService(repo repository.ArticleRepository, tx TxManager, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		tx:       tx,
		cache:    c,
		detector: changes.NewStrictDetector(),
		ttl:      cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a new article and returns its id.
// The search cache is flushed once the insert has committed.
func (s *Service) Create(ctx context.Context, attrs Attributes) (id int64, err error) {
	ctx, done := s.observe(ctx, "create")
	defer func() { done(err) }()

	if err := attrs.requireComplete(); err != nil {
		return 0, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.repo.Create(ctx, attrs.ToMap())
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create article: %w", err)
	}

	if err := s.flush(ctx); err != nil {
		return id, err
	}
	logging.FromContext(ctx).Info("article created", slog.Int64("article_id", id))
	return id, nil
}

// Update writes the fields of attrs that differ from the stored article and
// returns them. An empty result means nothing changed; the cache is flushed
// either way.
func (s *Service) Update(ctx context.Context, id int64, attrs Attributes) (diff map[string]any, err error) {
	ctx, done := s.observe(ctx, "update", attribute.Int64("article.id", id))
	defer func() { done(err) }()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindOrFail(ctx, id)
		if err != nil {
			return err
		}

		diff = s.detector.Diffs(current.ToMap(), attrs.ToMap())
		if len(diff) == 0 {
			return nil
		}
		_, err = s.repo.UpdateByID(ctx, id, diff)
		return err
	})
	if err != nil {
		return nil, s.translate("update article", err)
	}

	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("article updated",
		slog.Int64("article_id", id), slog.Int("changed_fields", len(diff)))
	return diff, nil
}

// Destroy unpublishes a published article and deletes a draft.
func (s *Service) Destroy(ctx context.Context, id int64) (err error) {
	ctx, done := s.observe(ctx, "destroy", attribute.Int64("article.id", id))
	defer func() { done(err) }()

	var unpublished bool
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindOrFail(ctx, id)
		if err != nil {
			return err
		}

		if current.IsPublished() {
			unpublished = true
			_, err = s.repo.UpdateByID(ctx, id, map[string]any{entity.FieldPublishedAt: nil})
			return err
		}
		_, err = s.repo.DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return s.translate("destroy article", err)
	}

	if err := s.flush(ctx); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("article destroyed",
		slog.Int64("article_id", id), slog.Bool("unpublished", unpublished))
	return nil
}

// GetBySearchTerm lists published articles whose title or body contains term.
// A nil or blank term lists every published article. Results are cached per
// literal term under IndexCacheTag.
func (s *Service) GetBySearchTerm(ctx context.Context, term *string) ([]entity.ArticleSummary, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "article.search", attribute.Bool("search.has_term", term != nil))

	rows, err := cache.Remember(ctx, s.cache, IndexCacheTag, SearchCacheKey(term), s.ttl,
		func(ctx context.Context) ([]entity.ArticleSummary, error) {
			var t string
			if term != nil {
				t = *term
			}
			rows, err := s.repo.SearchPublished(ctx, t)
			if err != nil {
				return nil, err
			}
			if rows == nil {
				rows = []entity.ArticleSummary{}
			}
			return rows, nil
		})

	tracing.EndSpan(span, err)
	metrics.RecordArticleQuery("search", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return rows, nil
}

// SearchCacheKey derives the cache key of a search term. A nil term and an
// empty term get different keys.
func SearchCacheKey(term *string) string {
	if term == nil {
		return "search:null"
	}
	sum := sha256.Sum256([]byte(*term))
	return "search:term:" + hex.EncodeToString(sum[:])
}

func (s *Service) flush(ctx context.Context) error {
	if err := s.cache.Flush(ctx, IndexCacheTag); err != nil {
		logging.FromContext(ctx).Error("search cache flush failed after commit", slog.Any("error", err))
		return err
	}
	return nil
}

// translate maps a repository not-found abort onto ErrArticleNotFound.
func (s *Service) translate(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrArticleNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// observe opens a span for a mutation and returns the func that closes it and records metrics.
func (s *Service) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "article."+op, attrs...)
	return ctx, func(err error) {
		result := metrics.ResultSuccess
		switch {
		case errors.Is(err, ErrArticleNotFound):
			result = metrics.ResultNotFound
			tracing.EndSpan(span, nil)
		default:
			if err != nil {
				result = metrics.ResultError
			}
			tracing.EndSpan(span, err)
		}
		metrics.RecordArticleMutation(op, result, time.Since(start))
	}
}
