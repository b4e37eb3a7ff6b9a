// Package publisher defines the port interface for pushing display payloads
// to the device platform.
package publisher

import (
	"context"

	"github.com/factpanel/factpanel/internal/domain/display"
)

// Publisher delivers a rendering payload to the platform that owns the
// device screen.
type Publisher interface {
	Push(ctx context.Context, payload display.Payload) error
}
