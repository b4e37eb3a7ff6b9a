// Package chucknorris provides an HTTP client for the chucknorris.io fact API.
package chucknorris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/factpanel/factpanel/internal/domain/fact"
	"github.com/factpanel/factpanel/internal/resilience"
)

// maxResponseBytes bounds how much of an upstream response is read. Fact
// payloads are a few hundred bytes; anything near this limit is garbage.
const maxResponseBytes = 1 << 20

// joke is the upstream wire format of a random fact.
type joke struct {
	ID      string `json:"id"`
	Value   string `json:"value"`
	IconURL string `json:"icon_url"`
	URL     string `json:"url"`
}

// Client fetches random facts from the chucknorris.io API.
type Client struct {
	url        string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a fact API client. url is the full random-fact endpoint.
// A non-positive timeout falls back to 10 seconds.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Random fetches one random fact. Unreachable upstream, a non-2xx status and
// a malformed body are all plain errors; the caller owns fallback policy.
// The returned fact has no FetchedAt; the caller stamps it.
func (c *Client) Random(ctx context.Context) (*fact.Fact, error) {
	data, err := c.doRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("random fact: %w", err)
	}

	var j joke
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal fact: %w", err)
	}

	f := &fact.Fact{
		ID:        j.ID,
		Text:      j.Value,
		IconURL:   j.IconURL,
		SourceURL: j.URL,
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("malformed fact response: %w", err)
	}
	return f, nil
}

func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("fact API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
