// Package graphql serves the GraphQL API over HTTP.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	graphqlgo "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// Path is where the API is mounted.
const Path = "/graphql"

// RequestIDHeader carries the id assigned to each API request.
const RequestIDHeader = "X-Request-ID"

// Handler executes GraphQL operations against Schema.
type Handler struct {
	Schema *graphqlgo.Schema
	Log    *zap.Logger

	post       http.Handler
	playground http.Handler
}

// NewHandler builds a Handler. With playground set, browsers asking for
// HTML on GET receive the GraphiQL page.
func NewHandler(schema *graphqlgo.Schema, playground bool, logger *zap.Logger) *Handler {
	h := &Handler{
		Schema: schema,
		Log:    logger,
		post:   &relay.Handler{Schema: schema},
	}
	if playground {
		h.playground = Playground(Path)
	}
	return h
}

type requestIDKey struct{}

// RequestID returns the id assigned to the current API request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *Handler) withRequestID(w http.ResponseWriter, r *http.Request) *http.Request {
	id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	return r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
}

// ServePost handles POST /graphql with a JSON body of
// {query, operationName, variables}.
func (h *Handler) ServePost(w http.ResponseWriter, r *http.Request) {
	r = h.withRequestID(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeErrors(w, http.StatusRequestEntityTooLarge, "Request body too large", "BAD_REQUEST")
			return
		}
		writeErrors(w, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST")
		return
	}
	if !json.Valid(body) {
		writeErrors(w, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST")
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))

	h.post.ServeHTTP(w, r)
}

// ServeGet handles GET /graphql. A browser asking for HTML gets the
// playground; anything else executes ?query=.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	r = h.withRequestID(w, r)

	q := r.URL.Query()
	if h.playground != nil && q.Get("query") == "" && strings.Contains(r.Header.Get("Accept"), "text/html") {
		h.playground.ServeHTTP(w, r)
		return
	}

	query := q.Get("query")
	if query == "" {
		writeErrors(w, http.StatusBadRequest, "Missing query", "BAD_REQUEST")
		return
	}
	var vars map[string]interface{}
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			writeErrors(w, http.StatusBadRequest, "Invalid variables", "BAD_REQUEST")
			return
		}
	}

	resp := h.Schema.Exec(r.Context(), query, q.Get("operationName"), vars)
	h.writeResponse(w, resp)
}

func (h *Handler) writeResponse(w http.ResponseWriter, resp *graphqlgo.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		h.Log.Error("graphql: encode response", zap.Error(err))
		writeErrors(w, http.StatusInternalServerError, "Internal server error", "INTERNAL")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// TooManyRequests answers a rate-limited API request in the GraphQL error
// shape.
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeErrors(w, http.StatusTooManyRequests, "Too many requests, please try again later.", "RATE_LIMITED")
}

func writeErrors(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Errors []*gqlerrors.QueryError `json:"errors"`
	}{
		Errors: []*gqlerrors.QueryError{{
			Message:    msg,
			Extensions: map[string]interface{}{"code": code},
		}},
	})
}
