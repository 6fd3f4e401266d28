package graph

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	graphql "github.com/graph-gophers/graphql-go"
)

// CampgroundResolver serves the Campground type.
type CampgroundResolver struct {
	r *Resolver
	c models.Campground
}

func (r *Resolver) campground(c models.Campground) *CampgroundResolver {
	return &CampgroundResolver{r: r, c: c}
}

func (c *CampgroundResolver) ID() graphql.ID        { return graphql.ID(c.c.ID.Hex()) }
func (c *CampgroundResolver) Name() string          { return c.c.Name }
func (c *CampgroundResolver) Price() *float64       { return c.c.Price }
func (c *CampgroundResolver) Image() string         { return c.c.Image }
func (c *CampgroundResolver) Location() *string     { return optString(c.c.Location) }
func (c *CampgroundResolver) Latitude() *int32      { return c.c.Latitude }
func (c *CampgroundResolver) Longitude() *int32     { return c.c.Longitude }
func (c *CampgroundResolver) Description() *string  { return optString(c.c.Description) }
func (c *CampgroundResolver) Rating() *float64      { return c.c.Rating }
func (c *CampgroundResolver) CreatedAt() string     { return isoTime(c.c.CreatedAt) }
func (c *CampgroundResolver) UpdatedAt() string     { return isoTime(c.c.UpdatedAt) }
func (c *CampgroundResolver) Author() *UserResolver { return c.r.author(models.AuthorRef{ID: c.c.Author.ID, Username: c.c.Author.Username}) }

func (c *CampgroundResolver) Country() *CountryResolver {
	if c.c.Country == nil {
		return nil
	}
	return &CountryResolver{c: *c.c.Country}
}

func (c *CampgroundResolver) FitnessLevel() *LevelResolver       { return level(c.c.FitnessLevel) }
func (c *CampgroundResolver) HikingLevel() *LevelResolver        { return level(c.c.HikingLevel) }
func (c *CampgroundResolver) TrekTechnicalGrade() *LevelResolver { return level(c.c.TrekTechnicalGrade) }

func (c *CampgroundResolver) BestSeasons() *BestSeasonsResolver {
	if c.c.BestSeasons == nil {
		return nil
	}
	return &BestSeasonsResolver{s: *c.c.BestSeasons}
}

// Comments loads the campground's comments.
func (c *CampgroundResolver) Comments(ctx context.Context) (*[]*CommentResolver, error) {
	out := []*CommentResolver{}
	if len(c.c.Comments) == 0 {
		return &out, nil
	}
	cs, err := c.r.comments.ByIDs(ctx, c.c.Comments)
	if err != nil {
		return nil, c.r.internal("Error fetching campground comments!", err)
	}
	for _, cm := range cs {
		out = append(out, c.r.comment(cm))
	}
	return &out, nil
}

// Amenities loads the campground's amenities.
func (c *CampgroundResolver) Amenities(ctx context.Context) (*[]*AmenityResolver, error) {
	out := []*AmenityResolver{}
	if len(c.c.Amenities) == 0 {
		return &out, nil
	}
	as, err := c.r.reference.AmenitiesByIDs(ctx, c.c.Amenities)
	if err != nil {
		return nil, c.r.internal("Error fetching campground amenities!", err)
	}
	for _, a := range as {
		out = append(out, &AmenityResolver{a: a})
	}
	return &out, nil
}

// CampgroundsPayloadResolver is a page of campgrounds with site totals.
type CampgroundsPayloadResolver struct {
	campgrounds  []*CampgroundResolver
	matched      int64
	total        int64
	users        int64
	contributors int64
}

func (p *CampgroundsPayloadResolver) Campgrounds() []*CampgroundResolver { return p.campgrounds }
func (p *CampgroundsPayloadResolver) MaxCampgrounds() int32              { return int32(p.matched) }
func (p *CampgroundsPayloadResolver) CampgroundsCount() int32            { return int32(p.total) }
func (p *CampgroundsPayloadResolver) UsersCount() int32                  { return int32(p.users) }
func (p *CampgroundsPayloadResolver) ContributorsCount() int32           { return int32(p.contributors) }

// CampgroundDataPayloadResolver is a campground with its rating summary.
type CampgroundDataPayloadResolver struct {
	campground *CampgroundResolver
	ratingData *RatingCountUsersResolver
}

func (p *CampgroundDataPayloadResolver) Campground() *CampgroundResolver       { return p.campground }
func (p *CampgroundDataPayloadResolver) RatingData() *RatingCountUsersResolver { return p.ratingData }

type RatingCountUsersResolver struct {
	count   int32
	ratedBy []*string
}

func (r *RatingCountUsersResolver) RatingsCount() *int32 { return &r.count }
func (r *RatingCountUsersResolver) RatedBy() *[]*string  { return &r.ratedBy }

// CampgroundListPayloadResolver is one row of the short campground list.
type CampgroundListPayloadResolver struct {
	s models.CampgroundSummary
}

func (p *CampgroundListPayloadResolver) ID() graphql.ID   { return graphql.ID(p.s.ID.Hex()) }
func (p *CampgroundListPayloadResolver) Name() string     { return p.s.Name }
func (p *CampgroundListPayloadResolver) Rating() *float64 { return p.s.Rating }
func (p *CampgroundListPayloadResolver) Price() *float64  { return p.s.Price }

func (p *CampgroundListPayloadResolver) CountryCode() *string {
	if p.s.Country == nil {
		return nil
	}
	return optString(p.s.Country.TwoLetterCountryCode)
}

func (p *CampgroundListPayloadResolver) ContinentName() *string {
	if p.s.Country == nil {
		return nil
	}
	return optString(p.s.Country.ContinentName)
}
