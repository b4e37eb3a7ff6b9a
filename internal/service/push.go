package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/factpanel/factpanel/internal/adapter/otel"
	"github.com/factpanel/factpanel/internal/domain"
	"github.com/factpanel/factpanel/internal/domain/display"
	"github.com/factpanel/factpanel/internal/port/publisher"
)

// PushService publishes the current payload to the remote display
// platform on operator request. There is no background scheduler; pushes
// happen only through this service.
type PushService struct {
	display *DisplayService
	pub     publisher.Publisher
	metrics *otel.Metrics
}

// NewPushService creates a push service.
func NewPushService(display *DisplayService, pub publisher.Publisher, metrics *otel.Metrics) *PushService {
	return &PushService{display: display, pub: pub, metrics: metrics}
}

// Push composes the current payload and publishes it. It refuses to push
// an error payload; the operator gets an error instead of blanking the
// display remotely.
func (s *PushService) Push(ctx context.Context) (display.Payload, error) {
	p := s.display.Payload(ctx)
	if p.Status != display.StatusOK {
		return display.Payload{}, fmt.Errorf("compose payload: %w", domain.ErrNoFact)
	}

	s.metrics.Pushes.Add(ctx, 1)
	if err := s.pub.Push(ctx, p); err != nil {
		s.metrics.PushFailures.Add(ctx, 1)
		return display.Payload{}, err
	}

	slog.Info("payload pushed", "fact_id", p.FactID)
	return p, nil
}
