package graph

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/inputval"
	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EntityKind values accepted by the entity query.
const (
	KindUser         = "USER"
	KindCampground   = "CAMPGROUND"
	KindComment      = "COMMENT"
	KindRating       = "RATING"
	KindNotification = "NOTIFICATION"
)

// baseFields is what every BaseFields member resolves.
type baseFields interface {
	ID() graphql.ID
	CreatedAt() string
	UpdatedAt() string
}

// BaseFieldsResolver carries one BaseFields variant. The engine picks the
// concrete type through the To* methods.
type BaseFieldsResolver struct {
	baseFields
}

func (b *BaseFieldsResolver) ToUser() (*UserResolver, bool) {
	v, ok := b.baseFields.(*UserResolver)
	return v, ok
}

func (b *BaseFieldsResolver) ToCampground() (*CampgroundResolver, bool) {
	v, ok := b.baseFields.(*CampgroundResolver)
	return v, ok
}

func (b *BaseFieldsResolver) ToComment() (*CommentResolver, bool) {
	v, ok := b.baseFields.(*CommentResolver)
	return v, ok
}

func (b *BaseFieldsResolver) ToRating() (*RatingResolver, bool) {
	v, ok := b.baseFields.(*RatingResolver)
	return v, ok
}

func (b *BaseFieldsResolver) ToNotification() (*NotificationResolver, bool) {
	v, ok := b.baseFields.(*NotificationResolver)
	return v, ok
}

type entityArgs struct {
	Kind string
	ID   graphql.ID
}

// entityLoader returns the validation entity and loader for kind. A loader
// returns mongo.ErrNoDocuments for a missing document.
func (r *Resolver) entityLoader(kind string) (string, func(context.Context, primitive.ObjectID) (baseFields, error)) {
	switch kind {
	case KindUser:
		return inputval.EntityUser, func(ctx context.Context, id primitive.ObjectID) (baseFields, error) {
			u, err := r.users.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return r.user(*u), nil
		}
	case KindCampground:
		return inputval.EntityCampground, func(ctx context.Context, id primitive.ObjectID) (baseFields, error) {
			c, err := r.campgrounds.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return r.campground(*c), nil
		}
	case KindComment:
		return inputval.EntityComment, func(ctx context.Context, id primitive.ObjectID) (baseFields, error) {
			c, err := r.comments.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return r.comment(*c), nil
		}
	case KindRating:
		return inputval.EntityRating, func(ctx context.Context, id primitive.ObjectID) (baseFields, error) {
			rt, err := r.ratings.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return r.rating(*rt), nil
		}
	case KindNotification:
		return inputval.EntityNotification, func(ctx context.Context, id primitive.ObjectID) (baseFields, error) {
			n, err := r.notifications.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return &NotificationResolver{r: r, n: *n}, nil
		}
	}
	return "", nil
}

// Entity loads any BaseFields member by kind and id. An unknown id
// resolves to null. Users and notifications need a caller, as their
// dedicated queries do.
func (r *Resolver) Entity(ctx context.Context, args entityArgs) (*BaseFieldsResolver, error) {
	entity, load := r.entityLoader(args.Kind)
	if load == nil {
		return nil, apperr.Validation("Unknown entity kind " + args.Kind)
	}
	if args.Kind == KindUser || args.Kind == KindNotification {
		if _, err := auth.UserID(ctx, true); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(string(args.ID)) == "" {
		return nil, apperr.Validation("Entity ID is required")
	}
	id, err := inputval.ObjectID(string(args.ID), entity)
	if err != nil {
		return nil, err
	}

	v, err := load(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.internal("Error fetching entity!", err)
	}
	return &BaseFieldsResolver{v}, nil
}
