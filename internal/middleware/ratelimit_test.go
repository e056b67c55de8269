package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitLogin_DisabledPassesThrough(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		LoginEnabled: false,
	}
	handler := RateLimitLogin(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auth/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when disabled", rec.Code)
	}
}

func TestRateLimitLogin_NoCachePassesThrough(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		LoginEnabled: true,
		Cache:        nil,
	}
	handler := RateLimitLogin(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auth/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without a cache", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "9.9.9.9:1234", "1.2.3.4"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1234", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "9.9.9.9:1234", "5.6.7.8"},
		{"remote addr fallback", nil, "9.9.9.9:1234", "9.9.9.9:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
