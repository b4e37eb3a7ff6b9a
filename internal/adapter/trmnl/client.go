// Package trmnl provides an HTTP client for the TRMNL custom plugin
// webhook API.
package trmnl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/factpanel/factpanel/internal/domain/display"
	"github.com/factpanel/factpanel/internal/resilience"
)

// DefaultBaseURL is the production TRMNL host.
const DefaultBaseURL = "https://usetrmnl.com"

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// Client pushes display payloads to a TRMNL custom plugin via its webhook
// strategy endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	pluginUUID string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// Option mutates the client during construction.
type Option func(*Client)

// WithBaseURL overrides the API host (useful for tests). No trailing slash
// required.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient installs a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient builds a TRMNL client. Both credentials are required.
func NewClient(apiKey, pluginUUID string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	pluginUUID = strings.TrimSpace(pluginUUID)
	if apiKey == "" {
		return nil, errors.New("trmnl: API key is required")
	}
	if pluginUUID == "" {
		return nil, errors.New("trmnl: plugin UUID is required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		pluginUUID: pluginUUID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	c.baseURL = strings.TrimRight(strings.TrimSpace(c.baseURL), "/")
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	return c, nil
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Push sends the payload as merge variables for the plugin. TRMNL re-renders
// the device screen from them on its own schedule.
func (c *Client) Push(ctx context.Context, payload display.Payload) error {
	body, err := json.Marshal(map[string]any{
		"merge_variables": payload,
	})
	if err != nil {
		return fmt.Errorf("marshal merge variables: %w", err)
	}

	endpoint := c.baseURL + "/api/custom_plugins/" + url.PathEscape(c.pluginUUID)

	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

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
			return fmt.Errorf("trmnl API error %d: %s", resp.StatusCode, string(data))
		}
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return fmt.Errorf("push payload: %w", err)
		}
		return nil
	}

	if err := call(); err != nil {
		return fmt.Errorf("push payload: %w", err)
	}
	return nil
}
