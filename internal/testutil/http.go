package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithCaller returns ctx authenticated as uid. It bypasses the bearer
// middleware the way a verified token would.
func WithCaller(ctx context.Context, uid primitive.ObjectID) context.Context {
	return auth.WithIdentity(ctx, auth.Identity{UserID: &uid, IP: "192.0.2.1", UserAgent: "testutil"})
}

// Anonymous returns ctx with an identity that carries no credential.
func Anonymous(ctx context.Context) context.Context {
	return auth.WithIdentity(ctx, auth.Identity{IP: "192.0.2.1", UserAgent: "testutil"})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request carrying body as application/json.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
