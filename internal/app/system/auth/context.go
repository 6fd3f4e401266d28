package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Identity is the caller as derived from the request credential. It is
// computed once per request and shared by every resolver.
type Identity struct {
	UserID    *primitive.ObjectID
	TokenErr  error // set when a credential was presented but rejected
	IP        string
	UserAgent string
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Middleware derives the caller identity from the Authorization header.
// It never rejects a request; resolvers decide whether a caller is needed.
func Middleware(tokens *Tokens, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolve(tokens, r.Header.Get("Authorization"))
			id.IP = ratelimit.ClientIP(r)
			id.UserAgent = r.UserAgent()
			if id.TokenErr != nil {
				logger.Debug("rejected bearer credential",
					zap.String("ip", id.IP), zap.Error(id.TokenErr))
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithConnectionParams derives the identity for a long-lived connection from
// the "Authorization" entry of its init payload.
func WithConnectionParams(ctx context.Context, tokens *Tokens, params map[string]interface{}) context.Context {
	header, _ := params["Authorization"].(string)
	return WithIdentity(ctx, resolve(tokens, header))
}

func resolve(tokens *Tokens, header string) Identity {
	header = strings.TrimSpace(header)
	if header == "" {
		return Identity{}
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	uid, err := tokens.Parse(raw)
	if err != nil {
		return Identity{TokenErr: err}
	}
	return Identity{UserID: &uid}
}

// UserID returns the authenticated caller's id. With requireAuth set, a
// missing or rejected credential is an authentication error; otherwise it
// yields nil. A presented but invalid credential always fails.
func UserID(ctx context.Context, requireAuth bool) (*primitive.ObjectID, error) {
	id, _ := FromContext(ctx)
	if id.TokenErr != nil {
		return nil, apperr.Authentication("Authentication required")
	}
	if id.UserID != nil {
		uid := *id.UserID
		return &uid, nil
	}
	if requireAuth {
		return nil, apperr.Authentication("Authentication required")
	}
	return nil, nil
}

// MustUserID is UserID(ctx, true) for callers behind the auth gate.
func MustUserID(ctx context.Context) (primitive.ObjectID, error) {
	uid, err := UserID(ctx, true)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return *uid, nil
}
