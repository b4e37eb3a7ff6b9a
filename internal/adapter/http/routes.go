package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/factpanel/factpanel/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. The
// device token gates the routes the polling device hits; an empty token
// leaves them open.
func MountRoutes(r chi.Router, h *Handlers, deviceToken string) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Device-facing routes. TRMNL polls the webhook with GET; the
		// webhook strategy also allows POST.
		r.Group(func(r chi.Router) {
			r.Use(middleware.DeviceToken(deviceToken))
			r.Get("/webhook", h.Webhook)
			r.Post("/webhook", h.Webhook)
			r.Get("/display", h.DisplayImage)
		})

		// Operator route, guarded by the push bearer token.
		r.Post("/push", h.TriggerPush)
	})
}
