package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/factpanel/factpanel/internal/adapter/otel"
	"github.com/factpanel/factpanel/internal/config"
	"github.com/factpanel/factpanel/internal/domain/display"
	"github.com/factpanel/factpanel/internal/port/cache"
	"github.com/factpanel/factpanel/internal/render"
)

// noFactMessage is shown on the device when no fact has ever been fetched.
const noFactMessage = "No Chuck Norris fact available"

// DisplayService turns the current fact into device-facing artifacts: the
// webhook JSON payload and the rendered display image. Rendered images are
// cached per fact so repeated polls within the cache timeout do not
// re-render.
type DisplayService struct {
	facts   *FactService
	gen     *render.Generator
	store   cache.Cache
	width   int
	height  int
	refresh time.Duration
	ttl     time.Duration
	metrics *otel.Metrics

	now func() time.Time // for testing
}

// NewDisplayService creates a display service using the display and cache
// settings from cfg.
func NewDisplayService(facts *FactService, gen *render.Generator, store cache.Cache, cfg *config.Config, metrics *otel.Metrics) *DisplayService {
	return &DisplayService{
		facts:   facts,
		gen:     gen,
		store:   store,
		width:   cfg.Display.Width,
		height:  cfg.Display.Height,
		refresh: cfg.Display.RefreshRate(),
		ttl:     cfg.Cache.TTL(),
		metrics: metrics,
		now:     time.Now,
	}
}

// Payload returns the webhook payload for the current fact. When no fact
// is available it returns an error payload; the device always receives a
// renderable document.
func (s *DisplayService) Payload(ctx context.Context) display.Payload {
	f, _, err := s.facts.Fact(ctx)
	if err != nil {
		slog.Warn("no fact available for payload", "error", err)
		return display.ErrorPayload(noFactMessage, s.now(), s.refresh)
	}
	return display.FromFact(f, s.refresh)
}

// Image returns the rendered display image in the requested format. When
// no fact is available it renders an error canvas so the device still has
// something to draw. Error canvases are never cached.
func (s *DisplayService) Image(ctx context.Context, format render.Format) ([]byte, error) {
	f, _, err := s.facts.Fact(ctx)
	if err != nil {
		slog.Warn("no fact available for image", "error", err)
		s.metrics.Renders.Add(ctx, 1)
		return render.Encode(s.gen.RenderError(noFactMessage), format)
	}

	key := s.renderKey(f.ID, format)
	if data, ok, cacheErr := s.store.Get(ctx, key); cacheErr == nil && ok {
		s.metrics.RenderCacheHits.Add(ctx, 1)
		return data, nil
	}

	img := s.gen.Render(display.FromFact(f, s.refresh))
	s.metrics.Renders.Add(ctx, 1)

	data, err := render.Encode(img, format)
	if err != nil {
		return nil, fmt.Errorf("encode %s image: %w", format, err)
	}

	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		slog.Warn("render cache set failed", "key", key, "error", err)
	}
	return data, nil
}

func (s *DisplayService) renderKey(factID string, format render.Format) string {
	return fmt.Sprintf("render:%s:%dx%d:%s", factID, s.width, s.height, format)
}
