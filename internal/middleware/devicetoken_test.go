package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeviceTokenOpenWhenUnset(t *testing.T) {
	called := false
	handler := DeviceToken("")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhook", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to run with no token configured")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestDeviceTokenValid(t *testing.T) {
	handler := DeviceToken("secret-token")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhook", http.NoBody)
	req.Header.Set("Access-Token", "secret-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestDeviceTokenRejected(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"wrong token", "wrong"},
		{"missing token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := DeviceToken("secret-token")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Error("handler must not run with a bad token")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/webhook", http.NoBody)
			if tt.token != "" {
				req.Header.Set("Access-Token", tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("expected 403, got %d", rec.Code)
			}
		})
	}
}
