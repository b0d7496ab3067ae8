// Package dashboard loads the salary analytics shown on the dashboard.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/skillora/internal/cache"
	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/pkg/models"
	"golang.org/x/sync/errgroup"
)

const (
	summaryKind = "salary_summary"
	stacksKind  = "stack_compare"
)

// Data is one dashboard load.
type Data struct {
	Summary models.SalarySummary     `json:"summary"`
	Stacks  []models.StackCompareRow `json:"stacks"`
}

// Service fetches analytics, caching each result for ttl.
type Service struct {
	api   jobsapi.Client
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService creates a dashboard Service. A zero ttl disables caching.
func NewService(api jobsapi.Client, ca cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	if ca == nil {
		ca = cache.NoopCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{api: api, cache: ca, ttl: ttl, log: log}
}

// Load fetches the summary and the stack comparison concurrently. Either
// failure fails the load and cancels the other request.
func (s *Service) Load(ctx context.Context) (*Data, error) {
	var data Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.Summary(gctx)
		data.Summary = v
		return err
	})
	g.Go(func() error {
		v, err := s.Stacks(gctx)
		data.Stacks = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Summary returns the salary percentiles.
func (s *Service) Summary(ctx context.Context) (models.SalarySummary, error) {
	return cached(ctx, s, summaryKind, s.api.SalarySummary)
}

// Stacks returns the per-stack median comparison.
func (s *Service) Stacks(ctx context.Context) ([]models.StackCompareRow, error) {
	return cached(ctx, s, stacksKind, s.api.StackCompare)
}

// Invalidate drops cached analytics so the next load hits the backend.
func (s *Service) Invalidate(ctx context.Context) error {
	for _, kind := range []string{summaryKind, stacksKind} {
		if err := s.cache.Delete(ctx, cache.AnalyticsKey(kind)); err != nil {
			return err
		}
	}
	return nil
}

func cached[T any](ctx context.Context, s *Service, kind string, fetch func(context.Context) (T, error)) (T, error) {
	key := cache.AnalyticsKey(kind)
	var v T
	if s.ttl > 0 {
		found, err := cache.GetJSON(ctx, s.cache, key, &v)
		if err != nil {
			s.log.Warn("dashboard.cache_read_failed", "key", key, "error", err)
		} else if found {
			return v, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.ttl > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, v, s.ttl); err != nil {
			s.log.Warn("dashboard.cache_write_failed", "key", key, "error", err)
		}
	}
	return v, nil
}
