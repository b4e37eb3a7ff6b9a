// Package fact defines the fact entity served to display devices.
package fact

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyText indicates an upstream response that carried no fact text.
var ErrEmptyText = errors.New("fact: empty text")

// Fact is a single short text fact fetched from the upstream API.
// The service holds exactly one instance at a time; each successful refresh
// replaces it wholesale.
type Fact struct {
	// ID is the upstream identifier of the fact.
	ID string `json:"id"`
	// Text is the fact body shown on the display.
	Text string `json:"text"`
	// IconURL points at the upstream icon asset, when provided.
	IconURL string `json:"icon_url,omitempty"`
	// SourceURL is the upstream permalink, when provided.
	SourceURL string `json:"source_url,omitempty"`
	// FetchedAt records when the fact was fetched. Freshness is derived from
	// it; there is no separate expiry field.
	FetchedAt time.Time `json:"fetched_at"`
}

// Age returns how long ago the fact was fetched.
func (f *Fact) Age(now time.Time) time.Duration {
	return now.Sub(f.FetchedAt)
}

// Fresh reports whether the fact is still within the cache timeout.
// A fact is fresh while age < timeout; at exactly age == timeout it is stale.
func (f *Fact) Fresh(now time.Time, timeout time.Duration) bool {
	return f.Age(now) < timeout
}

// Validate checks that the fact carries the fields the display needs.
// An upstream response without text is treated as malformed.
func (f *Fact) Validate() error {
	if strings.TrimSpace(f.Text) == "" {
		return ErrEmptyText
	}
	return nil
}
