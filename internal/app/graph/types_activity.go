package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentResolver serves the Comment type.
type CommentResolver struct {
	r *Resolver
	c models.Comment
}

func (r *Resolver) comment(c models.Comment) *CommentResolver {
	return &CommentResolver{r: r, c: c}
}

func (c *CommentResolver) ID() graphql.ID        { return graphql.ID(c.c.ID.Hex()) }
func (c *CommentResolver) Text() string          { return c.c.Text }
func (c *CommentResolver) IsEdited() bool        { return c.c.IsEdited }
func (c *CommentResolver) CreatedAt() string     { return isoTime(c.c.CreatedAt) }
func (c *CommentResolver) UpdatedAt() string     { return isoTime(c.c.UpdatedAt) }
func (c *CommentResolver) Author() *UserResolver { return c.r.author(c.c.Author) }

func (c *CommentResolver) Likes() *[]*UserResolver {
	out := make([]*UserResolver, 0, len(c.c.Likes))
	for _, l := range c.c.Likes {
		out = append(out, c.r.author(l))
	}
	return &out
}

// RatingResolver serves the Rating type.
type RatingResolver struct {
	r  *Resolver
	rt models.Rating
}

func (r *Resolver) rating(rt models.Rating) *RatingResolver {
	return &RatingResolver{r: r, rt: rt}
}

func (r *Resolver) ratingList(rs []models.Rating) []*RatingResolver {
	out := make([]*RatingResolver, 0, len(rs))
	for _, rt := range rs {
		out = append(out, r.rating(rt))
	}
	return out
}

func (r *RatingResolver) ID() graphql.ID    { return graphql.ID(r.rt.ID.Hex()) }
func (r *RatingResolver) Rating() float64   { return r.rt.Rating }
func (r *RatingResolver) CreatedAt() string { return isoTime(r.rt.CreatedAt) }
func (r *RatingResolver) UpdatedAt() string { return isoTime(r.rt.UpdatedAt) }

func (r *RatingResolver) Author() *UserResolver {
	return r.r.author(models.AuthorRef{ID: r.rt.Author.ID, Username: r.rt.Author.Username})
}

// CampgroundID loads the rated campground.
func (r *RatingResolver) CampgroundID(ctx context.Context) (*CampgroundResolver, error) {
	c, err := r.r.campgrounds.GetByID(ctx, r.rt.CampgroundID)
	if err != nil {
		return nil, r.r.notFound("Rated campground not found!", err)
	}
	return r.r.campground(*c), nil
}

// NotificationResolver serves the Notification type.
type NotificationResolver struct {
	r *Resolver
	n models.Notification
}

func (r *Resolver) notificationList(ns []models.Notification) []*NotificationResolver {
	out := make([]*NotificationResolver, 0, len(ns))
	for _, n := range ns {
		out = append(out, &NotificationResolver{r: r, n: n})
	}
	return out
}

func (n *NotificationResolver) ID() graphql.ID          { return graphql.ID(n.n.ID.Hex()) }
func (n *NotificationResolver) CreatedAt() string       { return isoTime(n.n.CreatedAt) }
func (n *NotificationResolver) UpdatedAt() string       { return isoTime(n.n.UpdatedAt) }
func (n *NotificationResolver) IsRead() bool            { return n.n.IsRead }
func (n *NotificationResolver) IsCommentLike() bool     { return n.n.IsCommentLike }
func (n *NotificationResolver) NotificationType() int32 { return int32(n.n.NotificationType) }

// NotificationTypeDesc fails the field for a type the enum does not name.
func (n *NotificationResolver) NotificationTypeDesc() (string, error) {
	desc, ok := n.n.NotificationType.Desc()
	if !ok {
		return "", n.r.internal("Unknown notification type!",
			fmt.Errorf("notification %s has type %d", n.n.ID.Hex(), n.n.NotificationType))
	}
	return desc, nil
}

func (n *NotificationResolver) Follower() *FollowerResolver {
	if n.n.Follower == nil {
		return nil
	}
	return &FollowerResolver{r: n.r, f: *n.n.Follower}
}

func (n *NotificationResolver) CampgroundID(ctx context.Context) (*CampgroundResolver, error) {
	if n.n.CampgroundID == nil {
		return nil, nil
	}
	c, err := n.r.campgrounds.GetByID(ctx, *n.n.CampgroundID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, n.r.internal("Error fetching notification campground!", err)
	}
	return n.r.campground(*c), nil
}

func (n *NotificationResolver) CommentID(ctx context.Context) (*CommentResolver, error) {
	if n.n.CommentID == nil {
		return nil, nil
	}
	c, err := n.r.comments.GetByID(ctx, *n.n.CommentID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, n.r.internal("Error fetching notification comment!", err)
	}
	return n.r.comment(*c), nil
}

func (n *NotificationResolver) UserID(ctx context.Context) (*UserResolver, error) {
	if n.n.UserID == nil {
		return nil, nil
	}
	u, err := n.r.users.GetByID(ctx, *n.n.UserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, n.r.internal("Error fetching notification user!", err)
	}
	return n.r.user(*u), nil
}

// followerProjection is what a follow notification reveals about either
// side.
var followerProjection = bson.M{"_id": 1, "username": 1, "avatar": 1, "firstName": 1, "lastName": 1}

// FollowerResolver serves FollowerTypeField. Both users are fetched in one
// query the first time either side is asked for.
type FollowerResolver struct {
	r *Resolver
	f models.FollowerRef

	once  sync.Once
	users map[primitive.ObjectID]models.User
	err   error
}

func (f *FollowerResolver) load(ctx context.Context) error {
	f.once.Do(func() {
		us, err := f.r.users.Find(ctx,
			bson.M{"_id": bson.M{"$in": []primitive.ObjectID{f.f.ID, f.f.FollowingUserID}}},
			options.Find().SetProjection(followerProjection))
		if err != nil {
			f.err = f.r.internal("Error fetching follower details!", err)
			return
		}
		f.users = make(map[primitive.ObjectID]models.User, len(us))
		for _, u := range us {
			f.users[u.ID] = u
		}
	})
	return f.err
}

func (f *FollowerResolver) side(ctx context.Context, id primitive.ObjectID) (*UserResolver, error) {
	if err := f.load(ctx); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return f.r.user(u), nil
}

// ID is the user who followed.
func (f *FollowerResolver) ID(ctx context.Context) (*UserResolver, error) {
	return f.side(ctx, f.f.ID)
}

// FollowingUserID is the user who was followed.
func (f *FollowerResolver) FollowingUserID(ctx context.Context) (*UserResolver, error) {
	return f.side(ctx, f.f.FollowingUserID)
}
