// Package display defines the rendering payload served to polling devices.
package display

import (
	"time"

	"github.com/factpanel/factpanel/internal/domain/fact"
)

// Payload status values. A device always receives a well-formed payload;
// failures surface as status "error", never as a broken response.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Payload is the webhook response rendered by the device. Timestamp carries
// the fetch time of the underlying fact, so a cached fact keeps its original
// timestamp across polls.
type Payload struct {
	Status  string `json:"status"`
	Fact    string `json:"fact,omitempty"`
	FactID  string `json:"fact_id,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
	// Timestamp is RFC 3339 in UTC.
	Timestamp string `json:"timestamp"`
	// RefreshRate tells the device how many seconds to wait before polling
	// again.
	RefreshRate int    `json:"refresh_rate"`
	Error       string `json:"error,omitempty"`
}

// FromFact builds the payload for a successfully fetched fact.
func FromFact(f *fact.Fact, refreshRate time.Duration) Payload {
	return Payload{
		Status:      StatusOK,
		Fact:        f.Text,
		FactID:      f.ID,
		IconURL:     f.IconURL,
		Timestamp:   f.FetchedAt.UTC().Format(time.RFC3339),
		RefreshRate: int(refreshRate.Seconds()),
	}
}

// ErrorPayload builds the payload served when no fact is available at all.
func ErrorPayload(msg string, now time.Time, refreshRate time.Duration) Payload {
	return Payload{
		Status:      StatusError,
		Error:       msg,
		Timestamp:   now.UTC().Format(time.RFC3339),
		RefreshRate: int(refreshRate.Seconds()),
	}
}
