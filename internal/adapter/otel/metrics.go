package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "factpanel"

// Metrics holds all factpanel metric instruments. Without a configured
// metric provider the instruments are no-ops, so services can record
// unconditionally.
type Metrics struct {
	FactFetches     metric.Int64Counter
	FetchFailures   metric.Int64Counter
	CacheHits       metric.Int64Counter
	CacheMisses     metric.Int64Counter
	StaleServes     metric.Int64Counter
	Renders         metric.Int64Counter
	RenderCacheHits metric.Int64Counter
	Pushes          metric.Int64Counter
	PushFailures    metric.Int64Counter
	FetchDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.FactFetches, err = meter.Int64Counter("factpanel.fact.fetches",
		metric.WithDescription("Upstream fact fetch attempts"))
	if err != nil {
		return nil, err
	}

	m.FetchFailures, err = meter.Int64Counter("factpanel.fact.fetch_failures",
		metric.WithDescription("Upstream fact fetch failures"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("factpanel.fact.cache_hits",
		metric.WithDescription("Fact cache hits within the cache timeout"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("factpanel.fact.cache_misses",
		metric.WithDescription("Fact cache misses and expiries"))
	if err != nil {
		return nil, err
	}

	m.StaleServes, err = meter.Int64Counter("factpanel.fact.stale_serves",
		metric.WithDescription("Stale facts served after a fetch failure"))
	if err != nil {
		return nil, err
	}

	m.Renders, err = meter.Int64Counter("factpanel.render.images",
		metric.WithDescription("Canvases rendered"))
	if err != nil {
		return nil, err
	}

	m.RenderCacheHits, err = meter.Int64Counter("factpanel.render.cache_hits",
		metric.WithDescription("Rendered images served from the render cache"))
	if err != nil {
		return nil, err
	}

	m.Pushes, err = meter.Int64Counter("factpanel.push.total",
		metric.WithDescription("Payload pushes to TRMNL"))
	if err != nil {
		return nil, err
	}

	m.PushFailures, err = meter.Int64Counter("factpanel.push.failures",
		metric.WithDescription("Failed payload pushes to TRMNL"))
	if err != nil {
		return nil, err
	}

	m.FetchDuration, err = meter.Float64Histogram("factpanel.fact.fetch_duration_seconds",
		metric.WithDescription("Upstream fact fetch duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
