// Package graph holds the GraphQL schema of the API and every resolver
// behind it.
//
// Root resolvers (Query and Mutation fields) are methods on *Resolver.
// Object types are served by small wrapper types that hydrate their
// relationship fields lazily from the stores.
package graph

import (
	"context"
	_ "embed"
	"errors"
	"time"

	campgroundstore "github.com/dalemusser/yelpcamp/internal/app/store/campgrounds"
	commentstore "github.com/dalemusser/yelpcamp/internal/app/store/comments"
	jobstore "github.com/dalemusser/yelpcamp/internal/app/store/jobs"
	notificationstore "github.com/dalemusser/yelpcamp/internal/app/store/notifications"
	ratingstore "github.com/dalemusser/yelpcamp/internal/app/store/ratings"
	referencestore "github.com/dalemusser/yelpcamp/internal/app/store/reference"
	userstore "github.com/dalemusser/yelpcamp/internal/app/store/users"
	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/auditlog"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/avatars"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/app/system/reconcile"
	"github.com/dalemusser/yelpcamp/internal/app/system/txn"
	graphql "github.com/graph-gophers/graphql-go"
	gqllog "github.com/graph-gophers/graphql-go/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by the API.
func SDL() string { return schemaSDL }

// DefaultAvatarURL is assigned to new accounts when no other default is
// configured.
const DefaultAvatarURL = "https://encrypted-tbn0.gstatic.com/images?q=tbn%3AANd9GcQJS3-GoTF9xqAIyRROWdTD8SUihnSdP5Ac2uPb6AzgGHHyeuuD"

// Deps are the collaborators a Resolver needs beyond the database.
type Deps struct {
	// Client runs multi-document writes in a transaction. When nil, the
	// writes run sequentially.
	Client *mongo.Client

	Tokens       *auth.Tokens
	Mail         *mailer.Dispatcher
	Avatars      avatars.Host
	AvatarFolder string
	Audit        *auditlog.Logger
	Log          *zap.Logger

	ClientURL     string
	DefaultAvatar string
	ResetTTL      time.Duration
}

// Resolver is the root resolver for Query and Mutation.
type Resolver struct {
	users         *userstore.Store
	campgrounds   *campgroundstore.Store
	comments      *commentstore.Store
	ratings       *ratingstore.Store
	notifications *notificationstore.Store
	reference     *referencestore.Store
	jobs          *jobstore.Store
	reconcile     *reconcile.Service

	client        *mongo.Client
	tokens        *auth.Tokens
	mail          *mailer.Dispatcher
	avatars       avatars.Host
	avatarFolder  string
	audit         *auditlog.Logger
	log           *zap.Logger
	clientURL     string
	defaultAvatar string
	resetTTL      time.Duration
}

// NewResolver builds the root resolver over db.
func NewResolver(db *mongo.Database, d Deps) *Resolver {
	r := &Resolver{
		users:         userstore.New(db),
		campgrounds:   campgroundstore.New(db),
		comments:      commentstore.New(db),
		ratings:       ratingstore.New(db),
		notifications: notificationstore.New(db),
		reference:     referencestore.New(db),
		jobs:          jobstore.New(db),

		client:        d.Client,
		tokens:        d.Tokens,
		mail:          d.Mail,
		avatars:       d.Avatars,
		avatarFolder:  d.AvatarFolder,
		audit:         d.Audit,
		log:           d.Log,
		clientURL:     d.ClientURL,
		defaultAvatar: d.DefaultAvatar,
		resetTTL:      d.ResetTTL,
	}
	r.reconcile = &reconcile.Service{
		Users:         r.users,
		Comments:      r.comments,
		Notifications: r.notifications,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.defaultAvatar == "" {
		r.defaultAvatar = DefaultAvatarURL
	}
	if r.resetTTL <= 0 {
		r.resetTTL = time.Hour
	}
	if r.avatarFolder == "" {
		r.avatarFolder = "avatars"
	}
	return r
}

// Reconcile exposes the reconciliation service bound to the resolver's
// stores, for the background worker.
func (r *Resolver) Reconcile() *reconcile.Service { return r.reconcile }

// NewSchema parses the SDL against r. Fields marked @auth are enforced by
// their resolvers through requireCaller; opts add engine limits.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r, opts...)
}

// SchemaOptions builds the engine options the server runs with. Limits of
// zero or less are left unset. A nil panics logger keeps the engine default.
func SchemaOptions(maxDepth, maxParallelism int, panics gqllog.Logger) []graphql.SchemaOpt {
	var opts []graphql.SchemaOpt
	if panics != nil {
		opts = append(opts, graphql.Logger(panics))
	}
	if maxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(maxDepth))
	}
	if maxParallelism > 0 {
		opts = append(opts, graphql.MaxParallelism(maxParallelism))
	}
	return opts
}

// internal logs err and returns a client-safe error carrying msg.
func (r *Resolver) internal(msg string, err error) error {
	r.log.Error(msg, zap.Error(err))
	return apperr.Internal(msg, err)
}

// notFound maps a missing document to a NotFound error with msg; other
// errors become internal errors.
func (r *Resolver) notFound(msg string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(msg)
	}
	return r.internal(msg, err)
}

// inTxn runs fn in a transaction when a client is configured.
func (r *Resolver) inTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.client == nil {
		return fn(ctx)
	}
	return txn.Run(ctx, r.client, r.log, fn)
}
