package middleware

import (
	"crypto/subtle"
	"net/http"
)

const headerAccessToken = "Access-Token"

// DeviceToken returns middleware that validates the Access-Token header
// sent by polling devices. An empty configured token leaves the routes
// open, matching devices provisioned without one.
func DeviceToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(headerAccessToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "invalid access token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
