package ratingstore

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the ratings collection name.
const Collection = "ratings"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByID loads a rating by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Rating, error) {
	var r models.Rating
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ByCampground lists every rating of a campground.
func (s *Store) ByCampground(ctx context.Context, campgroundID primitive.ObjectID) ([]models.Rating, error) {
	return s.find(ctx, bson.M{"campgroundId": campgroundID})
}

// ByAuthor lists every rating the user gave.
func (s *Store) ByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Rating, error) {
	return s.find(ctx, bson.M{"author.id": authorID})
}

// ForUserAndCampground returns the user's rating of a campground. Several
// may exist; the most recently updated wins.
func (s *Store) ForUserAndCampground(ctx context.Context, campgroundID, userID primitive.ObjectID) (*models.Rating, error) {
	var r models.Rating
	err := s.c.FindOne(ctx,
		bson.M{"campgroundId": campgroundID, "author.id": userID},
		options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}),
	).Decode(&r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountByAuthor returns how many ratings the user gave.
func (s *Store) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"author.id": authorID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Rating, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Rating{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert stores r, assigning an id when none is set.
func (s *Store) Insert(ctx context.Context, r models.Rating) (models.Rating, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Rating{}, err
	}
	return r, nil
}
