package http

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/factpanel/factpanel/internal/domain"
	"github.com/factpanel/factpanel/internal/render"
	"github.com/factpanel/factpanel/internal/resilience"
	"github.com/factpanel/factpanel/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Facts   *service.FactService
	Display *service.DisplayService
	Push    *service.PushService

	// PushToken guards the operator push route (the TRMNL API key).
	PushToken string

	// Breakers are reported by name on the health endpoint.
	Breakers map[string]*resilience.Breaker
}

// Webhook serves the JSON payload the polling device renders. The device
// always gets a 200 with a renderable document; upstream failures surface
// as an error payload, never as an HTTP error.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Display.Payload(r.Context()))
}

// DisplayImage serves the rendered display canvas. The format query
// parameter selects bmp (default) or png.
func (h *Handlers) DisplayImage(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := h.Display.Image(r.Context(), format)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// TriggerPush publishes the current payload to TRMNL on operator request.
func (h *Handlers) TriggerPush(w http.ResponseWriter, r *http.Request) {
	if !h.authorizedPush(r) {
		writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
		return
	}

	p, err := h.Push.Push(r.Context())
	if err != nil {
		slog.Warn("push request failed", "error", err)
		if errors.Is(err, domain.ErrNoFact) {
			writeError(w, http.StatusBadGateway, "no fact available to push")
			return
		}
		writeError(w, http.StatusBadGateway, "push to TRMNL failed")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Health reports service status, the cached fact, and breaker states.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	type healthStatus struct {
		Status         string            `json:"status"`
		FactID         string            `json:"fact_id,omitempty"`
		FactAgeSeconds int64             `json:"fact_age_seconds,omitempty"`
		FactFresh      bool              `json:"fact_fresh"`
		Breakers       map[string]string `json:"breakers,omitempty"`
	}

	status := healthStatus{
		Status:    "ok",
		FactFresh: h.Facts.Fresh(),
	}
	if f := h.Facts.Current(); f != nil {
		status.FactID = f.ID
		status.FactAgeSeconds = int64(f.Age(time.Now()).Seconds())
	}
	if len(h.Breakers) > 0 {
		status.Breakers = make(map[string]string, len(h.Breakers))
		for name, b := range h.Breakers {
			status.Breakers[name] = b.State()
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// authorizedPush checks the Authorization header against the push token.
func (h *Handlers) authorizedPush(r *http.Request) bool {
	if h.PushToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.PushToken)) == 1
}
