package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/ratelimit"
)

func TestLimiter_AllowUpToBurst(t *testing.T) {
	l := ratelimit.New(3, time.Hour)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("a") {
		t.Error("fourth request should be limited")
	}
	if !l.Allow("b") {
		t.Error("other keys must have their own bucket")
	}
}

func TestLimiter_RemainingAndReset(t *testing.T) {
	l := ratelimit.New(2, time.Hour)
	defer l.Stop()

	if got := l.Remaining("k"); got != 2 {
		t.Errorf("Remaining before use = %d, want 2", got)
	}
	l.Allow("k")
	l.Allow("k")
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining after use = %d, want 0", got)
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected Allow after Reset")
	}
}

func TestMiddleware(t *testing.T) {
	l := ratelimit.New(1, time.Hour)
	defer l.Stop()

	limited := 0
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) {
		limited++
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d: status %d, want %d", i+1, rec.Code, want)
		}
	}
	if limited != 1 {
		t.Errorf("onLimit called %d times, want 1", limited)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded first hop", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:80", "203.0.113.5"},
		{"real ip", "", " 198.51.100.7 ", "10.0.0.2:80", "198.51.100.7"},
		{"remote with port", "", "", "192.0.2.9:4321", "192.0.2.9"},
		{"remote without port", "", "", "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
