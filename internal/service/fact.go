package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/factpanel/factpanel/internal/adapter/otel"
	"github.com/factpanel/factpanel/internal/domain/fact"
	"github.com/factpanel/factpanel/internal/port/factsource"
)

// FactService holds the single cached fact and refreshes it from the
// upstream source once the cache timeout elapses. A refresh failure falls
// back to the previous fact when one exists, so the display keeps showing
// content through upstream outages.
type FactService struct {
	source  factsource.Source
	timeout time.Duration
	metrics *otel.Metrics

	group singleflight.Group

	mu      sync.RWMutex
	current *fact.Fact

	now func() time.Time // for testing
}

// NewFactService creates a fact service. cacheTimeout <= 0 disables
// caching and every call fetches upstream.
func NewFactService(source factsource.Source, cacheTimeout time.Duration, metrics *otel.Metrics) *FactService {
	return &FactService{
		source:  source,
		timeout: cacheTimeout,
		metrics: metrics,
		now:     time.Now,
	}
}

// Fact returns the current fact, fetching a new one when the cached value
// has expired. The stale flag reports that a refresh failed and the
// previous fact is being served past its timeout; the fact itself is
// returned unchanged. An error is returned only when no fact is available
// at all.
func (s *FactService) Fact(ctx context.Context) (f *fact.Fact, stale bool, err error) {
	if f := s.fresh(); f != nil {
		s.metrics.CacheHits.Add(ctx, 1)
		return f, false, nil
	}
	s.metrics.CacheMisses.Add(ctx, 1)

	// Concurrent callers hitting an expired cache share one upstream
	// fetch instead of stampeding the API.
	v, err, _ := s.group.Do("fact", func() (any, error) {
		// Another caller may have refreshed between our freshness check
		// and this flight starting.
		if f := s.fresh(); f != nil {
			return f, nil
		}
		return s.refresh(ctx)
	})
	if err == nil {
		return v.(*fact.Fact), false, nil
	}

	if prev := s.Current(); prev != nil {
		s.metrics.StaleServes.Add(ctx, 1)
		slog.Warn("fact refresh failed, serving stale fact",
			"fact_id", prev.ID,
			"age", s.now().Sub(prev.FetchedAt).Round(time.Second),
			"error", err)
		return prev, true, nil
	}

	return nil, false, err
}

// Current returns the cached fact regardless of freshness, or nil when
// nothing has been fetched yet.
func (s *FactService) Current() *fact.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Fresh reports whether the cached fact is still within the cache timeout.
func (s *FactService) Fresh() bool {
	return s.fresh() != nil
}

// fresh returns the cached fact while it is within the cache timeout.
func (s *FactService) fresh() *fact.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil && s.current.Fresh(s.now(), s.timeout) {
		return s.current
	}
	return nil
}

// refresh performs a single upstream fetch and replaces the cached fact.
// No retries; the next expired request tries again.
func (s *FactService) refresh(ctx context.Context) (*fact.Fact, error) {
	s.metrics.FactFetches.Add(ctx, 1)
	start := s.now()

	f, err := s.source.Random(ctx)
	s.metrics.FetchDuration.Record(ctx, s.now().Sub(start).Seconds())
	if err != nil {
		s.metrics.FetchFailures.Add(ctx, 1)
		return nil, fmt.Errorf("fetch fact: %w", err)
	}
	f.FetchedAt = s.now()

	s.mu.Lock()
	s.current = f
	s.mu.Unlock()

	slog.Info("fact refreshed", "fact_id", f.ID)
	return f, nil
}
