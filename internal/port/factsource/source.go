// Package factsource defines the port interface for fetching facts.
package factsource

import (
	"context"

	"github.com/factpanel/factpanel/internal/domain/fact"
)

// Source fetches a random fact from an upstream provider. A single call maps
// to a single upstream request; callers own caching and retry policy.
type Source interface {
	Random(ctx context.Context) (*fact.Fact, error)
}
