package graph

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/inputval"
	"github.com/dalemusser/yelpcamp/internal/app/system/paging"
	"github.com/dalemusser/yelpcamp/internal/app/system/search"
	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fields searched by the free-text query arguments.
var (
	campgroundSearchFields = []string{"name", "location", "country.Country_Name", "country.Continent_Name"}
	userSearchFields       = []string{"username", "firstName", "lastName"}
)

var byUsername = bson.D{{Key: "username", Value: 1}, {Key: "_id", Value: 1}}

type paginationInput struct {
	Skip  *int32
	Limit *int32
	Sort  *string
}

func (p *paginationInput) params() paging.Params {
	var out paging.Params
	if p == nil {
		return out
	}
	if p.Skip != nil {
		out.Skip = int64(*p.Skip)
	}
	if p.Limit != nil {
		out.Limit = int64(*p.Limit)
	}
	if p.Sort != nil {
		out.Sort = *p.Sort
	}
	return out
}

type searchArgs struct {
	Query      *string
	Pagination *paginationInput
}

func (a searchArgs) query() string {
	if a.Query == nil {
		return ""
	}
	return *a.Query
}

// requiredID validates a required id argument. A blank id fails with
// missing, a malformed one with the entity's message.
func requiredID(id graphql.ID, entity, missing string) (primitive.ObjectID, error) {
	if strings.TrimSpace(string(id)) == "" {
		return primitive.NilObjectID, apperr.Validation(missing)
	}
	return inputval.ObjectID(string(id), entity)
}

// Campgrounds searches and pages campgrounds and reports site totals.
func (r *Resolver) Campgrounds(ctx context.Context, args searchArgs) (*CampgroundsPayloadResolver, error) {
	filter := search.AnyField(args.query(), campgroundSearchFields...)
	opts := args.Pagination.params().FindOptions(paging.NewestFirst)

	cs, err := r.campgrounds.Find(ctx, filter, opts)
	if err != nil {
		return nil, r.internal("Error fetching campgrounds!", err)
	}

	out := &CampgroundsPayloadResolver{campgrounds: make([]*CampgroundResolver, 0, len(cs))}
	for _, c := range cs {
		out.campgrounds = append(out.campgrounds, r.campground(c))
	}
	if out.matched, err = r.campgrounds.Count(ctx, filter); err != nil {
		return nil, r.internal("Error counting campgrounds!", err)
	}
	if out.total, err = r.campgrounds.Count(ctx, nil); err != nil {
		return nil, r.internal("Error counting campgrounds!", err)
	}
	if out.users, err = r.users.Count(ctx); err != nil {
		return nil, r.internal("Error counting users!", err)
	}
	if out.contributors, err = r.campgrounds.ContributorCount(ctx); err != nil {
		return nil, r.internal("Error counting contributors!", err)
	}
	return out, nil
}

// AllCampgrounds lists every campground in the short form.
func (r *Resolver) AllCampgrounds(ctx context.Context) ([]*CampgroundListPayloadResolver, error) {
	ss, err := r.campgrounds.Summaries(ctx)
	if err != nil {
		return nil, r.internal("Error fetching campgrounds!", err)
	}
	out := make([]*CampgroundListPayloadResolver, 0, len(ss))
	for _, s := range ss {
		out = append(out, &CampgroundListPayloadResolver{s: s})
	}
	return out, nil
}

type campgroundArgs struct {
	ID         graphql.ID
	IsEditMode bool
}

// Campground loads one campground. Outside edit mode the rating summary is
// attached.
func (r *Resolver) Campground(ctx context.Context, args campgroundArgs) (*CampgroundDataPayloadResolver, error) {
	id, err := requiredID(args.ID, inputval.EntityCampground, "Campground ID is required")
	if err != nil {
		return nil, err
	}

	c, err := r.campgrounds.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.internal("Error fetching campground!", err)
	}

	out := &CampgroundDataPayloadResolver{campground: r.campground(*c)}
	if args.IsEditMode {
		return out, nil
	}

	rs, err := r.ratings.ByCampground(ctx, id)
	if err != nil {
		return nil, r.internal("Error fetching campground ratings!", err)
	}
	data := &RatingCountUsersResolver{count: int32(len(rs)), ratedBy: make([]*string, 0, len(rs))}
	for _, rt := range rs {
		hex := rt.Author.ID.Hex()
		data.ratedBy = append(data.ratedBy, &hex)
	}
	out.ratingData = data
	return out, nil
}

type idArgs struct {
	ID graphql.ID
}

// CampRatings lists every rating of a campground.
func (r *Resolver) CampRatings(ctx context.Context, args idArgs) ([]*RatingResolver, error) {
	id, err := requiredID(args.ID, inputval.EntityCampground, "Campground ID is required")
	if err != nil {
		return nil, err
	}
	rs, err := r.ratings.ByCampground(ctx, id)
	if err != nil {
		return nil, r.internal("Error fetching campground ratings!", err)
	}
	return r.ratingList(rs), nil
}

// Me returns the caller's own account.
func (r *Resolver) Me(ctx context.Context) (*UserResolver, error) {
	uid, err := r.requireCaller(ctx, "Query.me")
	if err != nil {
		return nil, err
	}
	u, err := r.users.GetByID(ctx, uid)
	if err != nil {
		return nil, r.notFound("Error fetching current user data!", err)
	}
	return r.user(*u), nil
}

// Users searches and pages accounts by username.
func (r *Resolver) Users(ctx context.Context, args searchArgs) ([]*UserResolver, error) {
	if _, err := r.requireCaller(ctx, "Query.users"); err != nil {
		return nil, err
	}
	filter := search.AnyField(args.query(), userSearchFields...)
	us, err := r.users.Find(ctx, filter, args.Pagination.params().FindOptions(byUsername))
	if err != nil {
		return nil, r.internal("Error fetching users!", err)
	}
	return r.userList(us), nil
}

// AllUsers is Users with per-user activity totals.
func (r *Resolver) AllUsers(ctx context.Context, args searchArgs) ([]*AllUsersDisplayListResolver, error) {
	filter := search.AnyField(args.query(), userSearchFields...)
	us, err := r.users.Find(ctx, filter, args.Pagination.params().FindOptions(byUsername))
	if err != nil {
		return nil, r.internal("Error fetching users!", err)
	}
	out := make([]*AllUsersDisplayListResolver, 0, len(us))
	for _, u := range us {
		out = append(out, &AllUsersDisplayListResolver{r: r, u: u})
	}
	return out, nil
}

// User loads one account, or null when it does not exist.
func (r *Resolver) User(ctx context.Context, args idArgs) (*UserResolver, error) {
	if _, err := r.requireCaller(ctx, "Query.user"); err != nil {
		return nil, err
	}
	id, err := requiredID(args.ID, inputval.EntityUser, "User ID is required")
	if err != nil {
		return nil, err
	}
	u, err := r.users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.internal("Error fetching user!", err)
	}
	return r.user(*u), nil
}

type commentsArgs struct {
	AuthorID graphql.ID
}

// Comments lists every comment written by a user.
func (r *Resolver) Comments(ctx context.Context, args commentsArgs) ([]*CommentResolver, error) {
	if _, err := r.requireCaller(ctx, "Query.comments"); err != nil {
		return nil, err
	}
	id, err := requiredID(args.AuthorID, inputval.EntityComment, "Comment author is required")
	if err != nil {
		return nil, err
	}
	cs, err := r.comments.ByAuthor(ctx, id)
	if err != nil {
		return nil, r.internal("Error fetching comments!", err)
	}
	out := make([]*CommentResolver, 0, len(cs))
	for _, c := range cs {
		out = append(out, r.comment(c))
	}
	return out, nil
}

// UserRatings lists every rating a user gave.
func (r *Resolver) UserRatings(ctx context.Context, args idArgs) ([]*RatingResolver, error) {
	if _, err := r.requireCaller(ctx, "Query.userRatings"); err != nil {
		return nil, err
	}
	id, err := requiredID(args.ID, inputval.EntityUser, "User ID is required")
	if err != nil {
		return nil, err
	}
	rs, err := r.ratings.ByAuthor(ctx, id)
	if err != nil {
		return nil, r.internal("Error fetching user ratings!", err)
	}
	return r.ratingList(rs), nil
}

type userCampRatingArgs struct {
	CampgroundID graphql.ID
	UserID       graphql.ID
}

// UserCampRating returns a user's rating of a campground, or null.
func (r *Resolver) UserCampRating(ctx context.Context, args userCampRatingArgs) (*RatingResolver, error) {
	if _, err := r.requireCaller(ctx, "Query.userCampRating"); err != nil {
		return nil, err
	}
	cgID, err := requiredID(args.CampgroundID, inputval.EntityCampground, "Campground ID is required")
	if err != nil {
		return nil, err
	}
	uid, err := requiredID(args.UserID, inputval.EntityUser, "User ID is required")
	if err != nil {
		return nil, err
	}
	rt, err := r.ratings.ForUserAndCampground(ctx, cgID, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.internal("Error fetching rating!", err)
	}
	return r.rating(*rt), nil
}

// Notifications lists the caller's notifications, newest first.
func (r *Resolver) Notifications(ctx context.Context) ([]*NotificationResolver, error) {
	uid, err := r.requireCaller(ctx, "Query.notifications")
	if err != nil {
		return nil, err
	}
	u, err := r.users.GetByID(ctx, uid)
	if err != nil {
		return nil, r.notFound("Error fetching current user data!", err)
	}
	ns, err := r.notifications.ByIDs(ctx, u.Notifications)
	if err != nil {
		return nil, r.internal("Error fetching notifications!", err)
	}
	return r.notificationList(ns), nil
}

func (r *Resolver) Amenities(ctx context.Context) ([]*AmenityResolver, error) {
	as, err := r.reference.Amenities(ctx)
	if err != nil {
		return nil, r.internal("Error fetching amenities!", err)
	}
	out := make([]*AmenityResolver, 0, len(as))
	for _, a := range as {
		out = append(out, &AmenityResolver{a: a})
	}
	return out, nil
}

func (r *Resolver) Countries(ctx context.Context) ([]*CountryResolver, error) {
	cs, err := r.reference.Countries(ctx)
	if err != nil {
		return nil, r.internal("Error fetching countries!", err)
	}
	out := make([]*CountryResolver, 0, len(cs))
	for _, c := range cs {
		out = append(out, &CountryResolver{c: c})
	}
	return out, nil
}

// CampLevelsData returns the grading scales.
func (r *Resolver) CampLevelsData(ctx context.Context) (*HikeResolver, error) {
	h, err := r.reference.Hike(ctx)
	if err != nil {
		return nil, r.internal("Error fetching camp levels!", err)
	}
	return &HikeResolver{h: h}, nil
}

// CampStaticData returns everything the create-campground form offers.
func (r *Resolver) CampStaticData(ctx context.Context) (*HikeResolver, error) {
	h, err := r.reference.Hike(ctx)
	if err != nil {
		return nil, r.internal("Error fetching camp levels!", err)
	}
	cs, err := r.reference.Countries(ctx)
	if err != nil {
		return nil, r.internal("Error fetching countries!", err)
	}
	as, err := r.reference.Amenities(ctx)
	if err != nil {
		return nil, r.internal("Error fetching amenities!", err)
	}
	return &HikeResolver{h: h, countries: cs, amenities: as}, nil
}
