package campgroundstore

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the campgrounds collection name.
const Collection = "campgrounds"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByID loads a campground by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	var c models.Campground
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find returns the campgrounds matching filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Campground, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Campground{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summaries returns the reduced list projection of every campground.
func (s *Store) Summaries(ctx context.Context) ([]models.CampgroundSummary, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().
		SetProjection(bson.M{"name": 1, "rating": 1, "price": 1, "country": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.CampgroundSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of campgrounds matching filter. A nil filter
// counts every campground.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.c.CountDocuments(ctx, filter)
}

// CountByAuthor returns how many campgrounds the user posted.
func (s *Store) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"author.id": authorID})
}

// ContributorCount returns the number of distinct campground authors.
func (s *Store) ContributorCount(ctx context.Context) (int64, error) {
	ids, err := s.c.Distinct(ctx, "author.id", bson.M{})
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// Insert stores c, assigning an id when none is set.
func (s *Store) Insert(ctx context.Context, c models.Campground) (models.Campground, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Comments == nil {
		c.Comments = []primitive.ObjectID{}
	}
	if c.Amenities == nil {
		c.Amenities = []primitive.ObjectID{}
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Campground{}, err
	}
	return c, nil
}
